package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"github.com/jqliu1995/Code-for-APEX/internal/table"
	"go.uber.org/zap"
)

// Key is one header entry. Link is set for entries rendered as an anchor.
type Key struct {
	Name  string
	Value string
	Link  string
}

// SuperRow is one graded scalar of a supermetrics block.
type SuperRow struct {
	Metric    string
	Cell      criteria.Cell
	Criterion string
}

// Block is the rendering-ready form of one content item. Empty blocks render
// nothing.
type Block struct {
	Type   ItemType
	Title  string
	Center bool
	Empty  bool

	Heading string
	Lines   []string
	Images  []string

	Table    *criteria.GradedTable
	Tally    criteria.PassTally
	Criteria criteria.Set
	Super    []SuperRow
}

// Legend lists the per-column criterion results of a graded block in criteria
// order.
func (b Block) Legend() []LegendRow {
	var out []LegendRow
	for _, r := range b.Criteria {
		c, ok := b.Tally[r.Column]
		if !ok {
			continue
		}
		out = append(out, LegendRow{Column: r.Column, Count: c, Criterion: r.Criterion.String()})
	}
	return out
}

// LegendRow is one line of a criteria legend.
type LegendRow struct {
	Column    string
	Count     criteria.Count
	Criterion string
}

// Page is an assembled document.
type Page struct {
	Keys      []Key
	Blocks    []Block
	HasImages bool
}

// Assemble turns doc into a page. Items are processed in order; an item that
// fails is logged and kept as an empty block, and an item of unknown type is
// dropped.
func Assemble(doc Document, rc RunContext) Page {
	page := Page{Keys: headerKeys(doc.Keys, rc)}
	for i, item := range doc.Items {
		if item.Type == "" {
			item.Type = Text
		}
		if item.Type == Image {
			page.HasImages = true
		}
		block, err := buildBlock(item)
		if errors.Is(err, ErrUnknownContent) {
			logging.LogDiagnostic(logging.KindConfigurationError, err.Error(), zap.Int("item", i))
			continue
		}
		if err != nil {
			logging.LogDiagnostic(diagnosticKind(err), err.Error(),
				zap.Int("item", i), zap.String("type", string(item.Type)), zap.String("title", item.Title))
			block = Block{Type: item.Type, Empty: true}
		}
		page.Blocks = append(page.Blocks, block)
	}
	return page
}

func diagnosticKind(err error) string {
	switch {
	case errors.Is(err, table.ErrMissingInput):
		return logging.KindMissingInput
	default:
		return logging.KindConfigurationError
	}
}

func buildBlock(item ContentItem) (Block, error) {
	b := Block{Type: item.Type, Title: item.Title, Center: item.centered()}
	switch item.Type {
	case Head1, Head2, Head3:
		b.Heading = fmt.Sprint(item.Content)
		return b, nil
	case Text:
		lines, err := textLines(item.Content)
		b.Lines = lines
		return b, err
	case Image:
		return imageBlock(b, item.Content)
	case Table:
		return tableBlock(b, item.Content)
	case Metrics:
		return metricsBlock(b, item)
	case SuperMetrics:
		return superMetricsBlock(b, item)
	}
	return b, fmt.Errorf("%w: %q", ErrUnknownContent, item.Type)
}

func textLines(content any) ([]string, error) {
	switch c := content.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Split(c, "\n"), nil
	case []string:
		return c, nil
	case []any:
		out := make([]string, len(c))
		for i, v := range c {
			out[i] = fmt.Sprint(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("text content must be a string or list, got %T", content)
}

func imageBlock(b Block, content any) (Block, error) {
	switch c := content.(type) {
	case string:
		b.Images = []string{c}
	case []string:
		b.Images = c
	case []any:
		for _, v := range c {
			b.Images = append(b.Images, fmt.Sprint(v))
		}
	default:
		return b, fmt.Errorf("image content must be a path or list of paths, got %T", content)
	}
	for _, p := range b.Images {
		if _, err := os.Stat(p); err != nil {
			logging.LogDiagnostic(logging.KindMissingInput, "image does not exist", zap.String("path", p))
		}
	}
	return b, nil
}

func tableBlock(b Block, content any) (Block, error) {
	path, ok := content.(string)
	if !ok {
		return b, fmt.Errorf("table content must be a .csv path, got %T", content)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return b, fmt.Errorf("%w: table file type %q", table.ErrUnsupportedFormat, ext)
	}
	t, err := table.FromCSVFile(path)
	if err != nil {
		return b, err
	}
	gt := plainTable(t)
	b.Table = &gt
	return b, nil
}

// plainTable formats t without projection, sorting or grading.
func plainTable(t table.Table) criteria.GradedTable {
	gt := criteria.GradedTable{Header: t.Header()}
	for _, row := range t.Rows() {
		cells := make([]criteria.Cell, len(row))
		for j, v := range row {
			cells[j] = criteria.Cell{Value: v, Text: table.FormatValue(v)}
		}
		gt.Rows = append(gt.Rows, cells)
	}
	return gt
}

func metricsTable(content any) (table.Table, error) {
	switch c := content.(type) {
	case *ordered.Map:
		return table.FromMapping(c)
	case string:
		return table.FromFile(c)
	case table.Table:
		return c, nil
	}
	return nil, fmt.Errorf("metrics content must be a mapping or a file path, got %T", content)
}

func metricsBlock(b Block, item ContentItem) (Block, error) {
	t, err := metricsTable(item.Content)
	if err != nil {
		return b, err
	}
	if t.Empty() || len(t.Rows()) == 0 {
		logging.LogDiagnostic(logging.KindMissingInput, "metrics table has no rows", zap.String("title", item.Title))
		b.Empty = true
		return b, nil
	}
	res := criteria.Apply(t, criteria.Options{
		Columns:  item.Metrics,
		Sort:     item.Sort,
		Criteria: item.Criteria,
	})
	b.Table = &res.Table
	b.Tally = res.Tally
	b.Criteria = item.Criteria
	return b, nil
}

func superMetricsBlock(b Block, item ContentItem) (Block, error) {
	var values *ordered.Map
	switch c := item.Content.(type) {
	case *ordered.Map:
		values = c
	case string:
		m, err := table.ReadMapping(c)
		if err != nil {
			return b, err
		}
		values = m
	default:
		return b, fmt.Errorf("supermetrics content must be a mapping or a file path, got %T", item.Content)
	}
	if values.Len() == 0 {
		return b, fmt.Errorf("%w: supermetrics are empty", table.ErrMissingInput)
	}

	t, skipped := table.FromScalars(values)
	for _, k := range skipped {
		logging.LogDiagnostic(logging.KindConfigurationError, "non-scalar supermetric ignored", zap.String("metric", k))
	}
	for _, row := range t.Rows() {
		name := fmt.Sprint(row[0])
		r := SuperRow{Metric: name, Criterion: table.Placeholder}
		r.Cell = criteria.Cell{Value: row[1], Text: table.FormatValue(row[1])}
		if c, ok := item.Criteria.Lookup(name); ok {
			r.Cell.Graded = true
			r.Cell.Grade = criteria.Judge(row[1], c)
			r.Criterion = c.String()
		}
		b.Super = append(b.Super, r)
	}
	return b, nil
}

var runKeys = []string{"test_date", "version", "job_address"}

// headerKeys puts the run keys first, taking caller values over the run
// context when set, then the remaining caller keys in order.
func headerKeys(extra *ordered.Map, rc RunContext) []Key {
	given := func(name string) string {
		if extra == nil {
			return ""
		}
		v, ok := extra.Get(name)
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}

	var keys []Key
	for _, name := range runKeys {
		k := Key{Name: capitalize(name), Value: given(name)}
		if k.Value == "" {
			switch name {
			case "test_date":
				k.Value = rc.TestDate()
			case "version":
				k.Value = rc.Version
			case "job_address":
				if rc.JobAddress != "" {
					k.Value, k.Link = "link", rc.JobAddress
				}
			}
		}
		keys = append(keys, k)
	}
	if extra == nil {
		return keys
	}
	for _, name := range extra.Keys() {
		if slices.Contains(runKeys, name) {
			continue
		}
		keys = append(keys, Key{Name: capitalize(name), Value: given(name)})
	}
	return keys
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}
