// Package report assembles an ordered document of content items into a
// self-contained HTML page. Metrics items are projected, sorted and graded on
// the way through; any item that fails renders as empty content.
package report

import (
	"errors"

	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// ErrUnknownContent is returned for an item type no renderer handles.
var ErrUnknownContent = errors.New("unknown content type")

// ItemType names the kind of a content item.
type ItemType string

const (
	Head1        ItemType = "head1"
	Head2        ItemType = "head2"
	Head3        ItemType = "head3"
	Text         ItemType = "text"
	Image        ItemType = "image"
	Table        ItemType = "table"
	Metrics      ItemType = "metrics"
	SuperMetrics ItemType = "supermetrics"
)

// ContentItem is one node of a document.
//
// Content depends on Type: a string for headings, a string or list of strings
// for text, one or more image paths for image, a .csv path for table, an
// *ordered.Map of row key to metrics (or a .csv/.json/.yaml path) for metrics,
// and an *ordered.Map of scalar values (or a .json/.yaml path) for
// supermetrics.
type ContentItem struct {
	Type     ItemType     `mapstructure:"type"`
	Content  any          `mapstructure:"content"`
	Title    string       `mapstructure:"title"`
	Criteria criteria.Set `mapstructure:"criteria"`
	Sort     []string     `mapstructure:"sort"`
	Metrics  []string     `mapstructure:"metrics"`
	// Center defaults to true.
	Center *bool `mapstructure:"center"`
}

func (c ContentItem) centered() bool {
	return c.Center == nil || *c.Center
}

// Document is an ordered list of items plus optional header keys.
type Document struct {
	// Keys are extra header entries shown after the run keys.
	Keys  *ordered.Map
	Items []ContentItem
}

// Add appends items in order.
func (d *Document) Add(items ...ContentItem) {
	d.Items = append(d.Items, items...)
}

// HasImages reports whether any item is an image.
func (d Document) HasImages() bool {
	for _, it := range d.Items {
		if it.Type == Image {
			return true
		}
	}
	return false
}

// Heading builds a heading item of the given level type.
func Heading(level ItemType, text string) ContentItem {
	return ContentItem{Type: level, Content: text}
}

// Paragraphs builds a text item; content is split on newlines at render time.
func Paragraphs(text string) ContentItem {
	return ContentItem{Type: Text, Content: text}
}
