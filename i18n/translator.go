package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "fr":
		switch code {
		case "missing_parameter":
			return "paramètre manquant"
		case "invalid_value":
			return "valeur invalide"
		case "overflow":
			return "valeur hors limites"
		case "ambiguous_sum":
			return "variante ambiguë"
		case "regexp_mismatch":
			return "le motif ne correspond pas"
		case "file_missing":
			return "fichier manquant"
		case "file_invalid":
			return "fichier invalide"
		case "duplicate_key":
			return "clé dupliquée"
		case "unconsumed_suffix":
			return "segments de chemin restants"
		case "invalid_shape":
			return "description de paramètre invalide"
		}
	default: // "en"
		switch code {
		case "missing_parameter":
			return "missing parameter"
		case "invalid_value":
			return "invalid value"
		case "overflow":
			return "value out of range"
		case "ambiguous_sum":
			return "ambiguous alternative"
		case "regexp_mismatch":
			return "pattern does not match"
		case "file_missing":
			return "missing file"
		case "file_invalid":
			return "invalid file"
		case "duplicate_key":
			return "duplicate key"
		case "unconsumed_suffix":
			return "leftover path segments"
		case "invalid_shape":
			return "invalid parameter description"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"fr").
func SetLanguage(lang string) {
	if lang != "fr" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

// TLang fetches a message for the given code in a specific language without
// touching the process-wide Translator. An empty or unknown lang falls back
// to English.
func TLang(lang, code string, data map[string]string) string {
	if lang == "" {
		return T(code, data)
	}
	return dictTranslator{lang: lang}.Message(code, data)
}
