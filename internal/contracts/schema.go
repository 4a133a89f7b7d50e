package contracts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Importance is the requiredness classification (viktighet) of a property
type Importance string

const (
	ImportanceRequiredAbsolute    Importance = "PÅKREVD_ABSOLUTT"
	ImportanceRequiredNotAbsolute Importance = "PÅKREVD_IKKE_ABSOLUTT"
	ImportanceConditional         Importance = "BETINGET"
	ImportanceOptional            Importance = "OPSJONELL"
	ImportanceMinor               Importance = "MINDRE_VIKTIG"

	// ImportanceAll is a filter value only, never a property classification
	ImportanceAll Importance = "ALLE"
)

// FilterChoices lists the accepted importance filters in display order
var FilterChoices = []Importance{
	ImportanceAll,
	ImportanceRequiredAbsolute,
	ImportanceRequiredNotAbsolute,
	ImportanceConditional,
	ImportanceOptional,
	ImportanceMinor,
}

var importanceAliases = map[string]Importance{
	"ALLE":                  ImportanceAll,
	"ALL":                   ImportanceAll,
	"PÅKREVD_ABSOLUTT":      ImportanceRequiredAbsolute,
	"PAKREVD_ABSOLUTT":      ImportanceRequiredAbsolute,
	"REQUIRED_ABSOLUTE":     ImportanceRequiredAbsolute,
	"PÅKREVD_IKKE_ABSOLUTT": ImportanceRequiredNotAbsolute,
	"PAKREVD_IKKE_ABSOLUTT": ImportanceRequiredNotAbsolute,
	"REQUIRED_NOT_ABSOLUTE": ImportanceRequiredNotAbsolute,
	"BETINGET":              ImportanceConditional,
	"CONDITIONAL":           ImportanceConditional,
	"OPSJONELL":             ImportanceOptional,
	"OPTIONAL":              ImportanceOptional,
	"MINDRE_VIKTIG":         ImportanceMinor,
	"MINOR":                 ImportanceMinor,
	"MINOR_IMPORTANCE":      ImportanceMinor,
}

// ParseImportanceFilter accepts the Norwegian wire names and their English
// aliases, case-insensitively. An empty string selects ALLE.
func ParseImportanceFilter(s string) (Importance, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return ImportanceAll, nil
	}
	key = strings.ReplaceAll(key, "-", "_")

	if imp, ok := importanceAliases[key]; ok {
		return imp, nil
	}

	return "", &InputError{
		Field:  "viktighet",
		Value:  s,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(filterNames(), ", ")),
	}
}

// Matches reports whether a property classified as imp passes this filter
func (f Importance) Matches(imp Importance) bool {
	return f == ImportanceAll || f == imp
}

func filterNames() []string {
	names := make([]string, len(FilterChoices))
	for i, c := range FilterChoices {
		names[i] = string(c)
	}
	return names
}

// PropertyDefinition is one declared property (egenskapstype) of an object type
type PropertyDefinition struct {
	ID         int        `json:"id" yaml:"id"`
	Name       string     `json:"navn" yaml:"navn"`
	Importance Importance `json:"viktighet" yaml:"viktighet"`
}

// UnmarshalJSON decodes one egenskapstype leniently. An id that is not an
// integer reads as 0 and a non-string navn or viktighet reads as empty, so
// one odd entry never fails the whole schema.
func (d *PropertyDefinition) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         interface{} `json:"id"`
		Name       interface{} `json:"navn"`
		Importance interface{} `json:"viktighet"`
	}
	*d = PropertyDefinition{}
	if json.Unmarshal(data, &raw) != nil {
		return nil
	}

	d.ID = looseInt(raw.ID)
	d.Name, _ = raw.Name.(string)
	imp, _ := raw.Importance.(string)
	d.Importance = Importance(imp)
	return nil
}

// ObjectType is the metadata of an object type (vegobjekttype)
type ObjectType struct {
	ID         int                  `json:"id"`
	Name       string               `json:"navn"`
	Properties []PropertyDefinition `json:"egenskapstyper"`
}

// UnmarshalJSON tolerates an odd id or navn; only a malformed document or
// property list is an error
func (ot *ObjectType) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         interface{}          `json:"id"`
		Name       interface{}          `json:"navn"`
		Properties []PropertyDefinition `json:"egenskapstyper"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ot.ID = looseInt(raw.ID)
	ot.Name, _ = raw.Name.(string)
	ot.Properties = raw.Properties
	return nil
}

// looseInt accepts integral numbers and integer strings; anything else is 0
func looseInt(v interface{}) int {
	switch f := v.(type) {
	case float64:
		if f != float64(int64(f)) {
			return 0
		}
	case string:
	default:
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}
