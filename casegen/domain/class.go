package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// State is the validity tag of an equivalence class.
// Valid and Invalid are the common cases but any non-empty tag is allowed.
type State string

const (
	StateValid   State = "V"
	StateInvalid State = "I"
)

// ParseState maps the spellings found in hand-written class files onto the
// canonical states. Unknown tags are kept verbatim.
func ParseState(raw string) State {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(norm.NFC.String(s)) {
	case "v", "valid", "valido", "válido", "valida", "válida":
		return StateValid
	case "i", "invalid", "invalido", "inválido", "invalida", "inválida":
		return StateInvalid
	}
	return State(s)
}

func (s State) String() string {
	switch s {
	case StateValid:
		return "Valid"
	case StateInvalid:
		return "Invalid"
	default:
		return string(s)
	}
}

// IsValid reports whether the state is the Valid state.
func (s State) IsValid() bool { return s == StateValid }

// IsInvalid reports whether the state is the Invalid state.
func (s State) IsInvalid() bool { return s == StateInvalid }

// Value is a representative or test case value in canonical form.
// All comparisons between representatives and case values are done on Value.
type Value string

// NormalizeValue converts a decoded scalar into its canonical string form.
// Strings are NFC-normalized; decimals use their shortest form so that
// 1, 1.0 and "1" compare equal. Integer literals keep every digit.
func NormalizeValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case string:
		return Value(norm.NFC.String(v)), nil
	case Value:
		return Value(norm.NFC.String(string(v))), nil
	case json.Number:
		// Integer literals stay exact, however long.
		if !strings.ContainsAny(v.String(), ".eE") {
			if i, err := v.Int64(); err == nil {
				return Value(strconv.FormatInt(i, 10)), nil
			}
			return Value(v.String()), nil
		}
		if f, err := v.Float64(); err == nil {
			return Value(strconv.FormatFloat(f, 'f', -1, 64)), nil
		}
		return Value(v.String()), nil
	case float64:
		return Value(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case float32:
		return Value(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case int:
		return Value(strconv.Itoa(v)), nil
	case int64:
		return Value(strconv.FormatInt(v, 10)), nil
	case uint64:
		return Value(strconv.FormatUint(v, 10)), nil
	case bool:
		return Value(strconv.FormatBool(v)), nil
	case nil:
		return "", fmt.Errorf("null value")
	default:
		return "", fmt.Errorf("unsupported value type %T", raw)
	}
}

// EquivalenceClass is a named group of interchangeable input values for one
// variable. Classes are built once at load time and never mutated.
type EquivalenceClass struct {
	// Variable is the input variable this class partitions.
	Variable string

	// Label is the human-readable name of the class.
	Label string

	// State is the validity tag.
	State State

	// Type is an optional free-form category shown in the coverage table.
	Type string

	// Representatives are the concrete values standing in for the class,
	// in source order.
	Representatives []Value
}

// NewEquivalenceClass validates its input and returns a class that owns a
// private copy of the representatives.
func NewEquivalenceClass(variable, label string, state State, classType string, reps []Value) (EquivalenceClass, error) {
	c := EquivalenceClass{
		Variable:        strings.TrimSpace(variable),
		Label:           strings.TrimSpace(label),
		State:           state,
		Type:            strings.TrimSpace(classType),
		Representatives: append([]Value(nil), reps...),
	}
	if err := c.Validate(); err != nil {
		return EquivalenceClass{}, err
	}
	return c, nil
}

// Validate checks the required fields. Index is left at zero; loaders that
// know the class position overwrite it.
func (c EquivalenceClass) Validate() error {
	if c.Variable == "" {
		return &MalformedClassError{Field: "variable", Reason: "is required"}
	}
	if c.Label == "" {
		return &MalformedClassError{Field: "label", Reason: "is required"}
	}
	if c.State == "" {
		return &MalformedClassError{Field: "state", Reason: "is required"}
	}
	if len(c.Representatives) == 0 {
		return &MalformedClassError{Field: "representatives", Reason: "must not be empty"}
	}
	for i, r := range c.Representatives {
		if r == "" {
			return &MalformedClassError{
				Field:  fmt.Sprintf("representatives[%d]", i),
				Reason: "must not be an empty value",
			}
		}
	}
	return nil
}

// Contains reports whether v is one of the class representatives.
func (c EquivalenceClass) Contains(v Value) bool {
	for _, r := range c.Representatives {
		if r == v {
			return true
		}
	}
	return false
}

// JoinedRepresentatives renders the representative list for tabular output.
func (c EquivalenceClass) JoinedRepresentatives(sep string) string {
	parts := make([]string, len(c.Representatives))
	for i, r := range c.Representatives {
		parts[i] = string(r)
	}
	return strings.Join(parts, sep)
}
