package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsYAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", `report:
  keys:
    datasets: bulk
    targets: elastic
  first:
    - type: head1
      content: Overview
    - content: plain text
  second:
    - type: metrics
      title: Scores
      content: scores.csv
      sort: [score]
      metrics: [score]
      center: false
      criteria:
        score: abs_lt 0.2
        loss: "x > 1 and x < 3"
`)
	doc, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"datasets", "targets"}, doc.Keys.Keys())
	require.Len(t, doc.Items, 3)
	assert.Equal(t, Head1, doc.Items[0].Type)
	assert.Equal(t, "Overview", doc.Items[0].Content)
	assert.Equal(t, ItemType(""), doc.Items[1].Type)

	m := doc.Items[2]
	assert.Equal(t, Metrics, m.Type)
	assert.Equal(t, "scores.csv", m.Content)
	assert.Equal(t, []string{"score"}, m.Sort)
	assert.False(t, m.centered())
	want := criteria.Set{
		{Column: "score", Criterion: criteria.AbsBelow(0.2)},
		{Column: "loss", Criterion: criteria.Expression("x > 1 and x < 3")},
	}
	if diff := cmp.Diff(want, m.Criteria); diff != "" {
		t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSettingsErrors(t *testing.T) {
	tests := map[string]string{
		"no report":        `{"other": {}}`,
		"empty report":     `{"report": {}}`,
		"only keys":        `{"report": {"keys": {"a": 1}}}`,
		"section not list": `{"report": {"s": {"type": "text"}}}`,
		"item not mapping": `{"report": {"s": ["text"]}}`,
		"bad criterion":    `{"report": {"s": [{"type": "metrics", "criteria": {"a": 3}}]}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ordered.DecodeJSON(strings.NewReader(body))
			require.NoError(t, err)
			_, err = ParseSettings(v.(*ordered.Map))
			assert.Error(t, err)
		})
	}

	v, err := ordered.DecodeJSON(strings.NewReader(`{"report": {}}`))
	require.NoError(t, err)
	_, err = ParseSettings(v.(*ordered.Map))
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestDecodeItemKeepsMappingContent(t *testing.T) {
	raw := obj("type", "supermetrics", "content", obj("b", 2, "a", 1))
	item, err := DecodeItem(raw)
	require.NoError(t, err)
	content, ok := item.Content.(*ordered.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, content.Keys())
	assert.True(t, item.centered())
}
