package report

import (
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/k0kubun/pp"
)

// Markdown converts a rendered HTML report to Markdown.
func Markdown(html string) (string, error) {
	return htmltomarkdown.ConvertString(html)
}

// Dump pretty-prints the document model, without colors when w is not a
// terminal.
func Dump(w io.Writer, doc Document, colored bool) error {
	prev := pp.ColoringEnabled
	pp.ColoringEnabled = colored
	defer func() { pp.ColoringEnabled = prev }()
	_, err := pp.Fprintln(w, doc)
	return err
}
