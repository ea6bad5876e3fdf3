package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/casegen/casegen/domain"
)

// Document keys holding the class list. The Spanish key is the one used by
// existing class files.
var classListKeys = []string{"clases_equivalencia", "classes", "equivalence_classes"}

// Field aliases accepted on each class, compared case-insensitively.
var (
	variableKeys = []string{"variable"}
	labelKeys    = []string{"label", "equivalencia", "equivalence", "name"}
	stateKeys    = []string{"state", "estado"}
	typeKeys     = []string{"type", "tipo"}
	repsKeys     = []string{"representatives", "representantes"}
)

// ParseStructured decodes a JSON or YAML class document. The document is
// either an object with a class list under one of the known keys or a bare
// list of classes. Loading is all-or-nothing: the first malformed class
// fails the whole document.
func ParseStructured(data []byte, format Format) ([]domain.EquivalenceClass, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, &domain.UnsupportedFormatError{Format: string(format), Reason: err.Error()}
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, &domain.UnsupportedFormatError{Format: string(format), Reason: err.Error()}
		}
		v, err := yamlValue(&node)
		if err != nil {
			return nil, &domain.UnsupportedFormatError{Format: string(format), Reason: err.Error()}
		}
		doc = v
	default:
		return nil, &domain.UnsupportedFormatError{Format: string(format)}
	}

	items, err := classList(doc)
	if err != nil {
		return nil, &domain.UnsupportedFormatError{Format: string(format), Reason: err.Error()}
	}

	classes := make([]domain.EquivalenceClass, 0, len(items))
	for i, item := range items {
		c, err := decodeClass(item)
		if err != nil {
			var mce *domain.MalformedClassError
			if errors.As(err, &mce) {
				mce.Index = i
			}
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// yamlValue converts a YAML node into the shapes a plain decode produces,
// except that integers too wide for uint64 keep their literal digits.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.ScalarNode:
		switch tag := n.ShortTag(); {
		case tag == "!!int":
			var i int64
			if err := n.Decode(&i); err == nil {
				return i, nil
			}
			var u uint64
			if err := n.Decode(&u); err == nil {
				return u, nil
			}
		case tag == "!!float" && isIntegerLiteral(n.Value):
			return json.Number(strings.TrimPrefix(strings.ReplaceAll(n.Value, "_", ""), "+")), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node", n.Line)
}

// isIntegerLiteral reports whether s is a signed run of decimal digits,
// allowing YAML digit separators.
func isIntegerLiteral(s string) bool {
	s = strings.TrimLeft(strings.ReplaceAll(s, "_", ""), "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func classList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range classListKeys {
			if raw, ok := lookup(v, key); ok {
				list, ok := raw.([]any)
				if !ok {
					return nil, fmt.Errorf("%q must be a list", key)
				}
				return list, nil
			}
		}
		return nil, fmt.Errorf("no class list found (expected one of %s)", strings.Join(classListKeys, ", "))
	case nil:
		return nil, errors.New("document is empty")
	}
	return nil, fmt.Errorf("unexpected document of type %T", doc)
}

func decodeClass(item any) (domain.EquivalenceClass, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return domain.EquivalenceClass{}, &domain.MalformedClassError{Field: "class", Reason: "must be an object"}
	}

	variable, err := stringField(fields, "variable", variableKeys, true)
	if err != nil {
		return domain.EquivalenceClass{}, err
	}
	label, err := stringField(fields, "label", labelKeys, true)
	if err != nil {
		return domain.EquivalenceClass{}, err
	}
	state, err := stringField(fields, "state", stateKeys, true)
	if err != nil {
		return domain.EquivalenceClass{}, err
	}
	classType, err := stringField(fields, "type", typeKeys, false)
	if err != nil {
		return domain.EquivalenceClass{}, err
	}

	raw, ok := lookupAny(fields, repsKeys)
	if !ok {
		return domain.EquivalenceClass{}, &domain.MalformedClassError{Field: "representatives", Reason: "is required"}
	}
	list, ok := raw.([]any)
	if !ok {
		return domain.EquivalenceClass{}, &domain.MalformedClassError{Field: "representatives", Reason: "must be a list"}
	}
	reps := make([]domain.Value, len(list))
	for i, r := range list {
		v, err := domain.NormalizeValue(r)
		if err != nil {
			return domain.EquivalenceClass{}, &domain.MalformedClassError{
				Field:  fmt.Sprintf("representatives[%d]", i),
				Reason: err.Error(),
			}
		}
		reps[i] = v
	}

	return domain.NewEquivalenceClass(variable, label, domain.ParseState(state), classType, reps)
}

func stringField(fields map[string]any, name string, keys []string, required bool) (string, error) {
	raw, ok := lookupAny(fields, keys)
	if !ok || raw == nil {
		if required {
			return "", &domain.MalformedClassError{Field: name, Reason: "is required"}
		}
		return "", nil
	}
	v, err := domain.NormalizeValue(raw)
	if err != nil {
		return "", &domain.MalformedClassError{Field: name, Reason: err.Error()}
	}
	return strings.TrimSpace(string(v)), nil
}

func lookupAny(fields map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := lookup(fields, k); ok {
			return v, true
		}
	}
	return nil, false
}

func lookup(fields map[string]any, key string) (any, bool) {
	if v, ok := fields[key]; ok {
		return v, true
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
