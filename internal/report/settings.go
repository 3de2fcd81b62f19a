package report

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// ErrEmptyReport is returned for a settings file without report items.
var ErrEmptyReport = errors.New("report section is empty")

// Settings file layout:
//
//	report:
//	  keys: {targets: ..., datasets: ...}   # optional header keys
//	  <section>: [item, item, ...]          # sections flattened in order
const (
	settingsReport = "report"
	settingsKeys   = "keys"
)

// LoadSettings reads a JSON or YAML settings file into a document.
func LoadSettings(path string) (Document, error) {
	v, err := ordered.DecodeFile(path)
	if err != nil {
		return Document{}, err
	}
	root, ok := v.(*ordered.Map)
	if !ok {
		return Document{}, fmt.Errorf("%s: top level must be a mapping", path)
	}
	return ParseSettings(root)
}

// ParseSettings builds a document from decoded settings.
func ParseSettings(root *ordered.Map) (Document, error) {
	var doc Document
	section, err := root.LookupMap(settingsReport)
	if err != nil || section.Len() == 0 {
		return doc, ErrEmptyReport
	}

	for _, name := range section.Keys() {
		v, _ := section.Get(name)
		if name == settingsKeys {
			keys, ok := v.(*ordered.Map)
			if !ok {
				return doc, fmt.Errorf("report.keys must be a mapping, got %T", v)
			}
			doc.Keys = keys
			continue
		}
		items, ok := v.([]any)
		if !ok {
			return doc, fmt.Errorf("report.%s must be a list of items, got %T", name, v)
		}
		for i, raw := range items {
			item, err := DecodeItem(raw)
			if err != nil {
				return doc, fmt.Errorf("report.%s[%d]: %w", name, i, err)
			}
			doc.Add(item)
		}
	}
	if len(doc.Items) == 0 {
		return doc, ErrEmptyReport
	}
	return doc, nil
}

// DecodeItem decodes one settings item. Content is kept as decoded so mapping
// payloads keep their key order; criteria may be given as a mapping of column
// to textual criterion.
func DecodeItem(raw any) (ContentItem, error) {
	var item ContentItem
	m, ok := raw.(*ordered.Map)
	if !ok {
		return item, fmt.Errorf("item must be a mapping, got %T", raw)
	}
	input := make(map[string]any, m.Len())
	for _, k := range m.Keys() {
		input[k], _ = m.Get(k)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       criteriaHook,
		WeaklyTypedInput: true,
		Result:           &item,
	})
	if err != nil {
		return item, err
	}
	if err := dec.Decode(input); err != nil {
		return item, err
	}
	return item, nil
}

var criteriaSetType = reflect.TypeOf(criteria.Set{})

// criteriaHook turns an ordered mapping of column -> "criterion" into a
// criteria.Set.
func criteriaHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != criteriaSetType {
		return data, nil
	}
	m, ok := data.(*ordered.Map)
	if !ok {
		return data, nil
	}
	set := make(criteria.Set, 0, m.Len())
	for _, col := range m.Keys() {
		v, _ := m.Get(col)
		text, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("criterion for %q must be a string, got %T", col, v)
		}
		c, err := criteria.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("criterion for %q: %w", col, err)
		}
		set = append(set, criteria.Rule{Column: col, Criterion: c})
	}
	return set, nil
}
