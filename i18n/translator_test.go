package i18n

import "testing"

func TestTranslator_DefaultAndFrench(t *testing.T) {
	// default is en
	if msg := T("missing_parameter", nil); msg == "missing_parameter" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("fr")
	if msg := T("missing_parameter", nil); msg == "missing parameter" {
		t.Fatalf("expected french message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_TLangDoesNotTouchGlobal(t *testing.T) {
	if msg := TLang("fr", "invalid_value", nil); msg != "valeur invalide" {
		t.Fatalf("unexpected fr message: %q", msg)
	}
	if msg := T("invalid_value", nil); msg != "invalid value" {
		t.Fatalf("global translator changed: %q", msg)
	}
	if msg := TLang("", "invalid_value", nil); msg != "invalid value" {
		t.Fatalf("empty lang should fall back to the global translator, got %q", msg)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo, got %q", msg)
	}
}
