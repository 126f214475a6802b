package ocsigenserver

// Kind identifies a parameter tree node. The fingerprint and the name Mirror
// are both keyed on kinds, so the numeric values are part of the observable
// shape identity and must stay stable.
type Kind uint8

const (
	KindUnit Kind = iota
	KindInt
	KindInt32
	KindInt64
	KindFloat
	KindString
	KindBool
	KindCheckbox
	KindFile
	KindUser
	KindCoordinates
	KindRegexp
	KindProduct
	KindSum
	KindOption
	KindSet
	KindList
	KindSuffix
	KindAllSuffix
	KindAllSuffixString
	KindAllSuffixRegexp
	KindAny
)

var kindNames = [...]string{
	KindUnit:            "unit",
	KindInt:             "int",
	KindInt32:           "int32",
	KindInt64:           "int64",
	KindFloat:           "float",
	KindString:          "string",
	KindBool:            "bool",
	KindCheckbox:        "checkbox",
	KindFile:            "file",
	KindUser:            "user",
	KindCoordinates:     "coordinates",
	KindRegexp:          "regexp",
	KindProduct:         "product",
	KindSum:             "sum",
	KindOption:          "option",
	KindSet:             "set",
	KindList:            "list",
	KindSuffix:          "suffix",
	KindAllSuffix:       "all_suffix",
	KindAllSuffixString: "all_suffix_string",
	KindAllSuffixRegexp: "all_suffix_regexp",
	KindAny:             "any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsLeaf reports whether the kind claims exactly its own key(s) and has no
// child parameters.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindInt, KindInt32, KindInt64, KindFloat, KindString, KindBool,
		KindCheckbox, KindFile, KindUser, KindCoordinates, KindRegexp,
		KindAllSuffix, KindAllSuffixString, KindAllSuffixRegexp:
		return true
	}
	return false
}

// IsScalar reports whether the kind decodes a single occurrence of a single
// key. Set elements and Default targets are restricted to scalar kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case KindInt, KindInt32, KindInt64, KindFloat, KindString, KindBool,
		KindFile, KindUser, KindRegexp:
		return true
	}
	return false
}
