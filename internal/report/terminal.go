package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/util"
)

var (
	passText = color.New(color.FgGreen).SprintFunc()
	failText = color.New(color.FgRed).SprintFunc()

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

const (
	// titleWidth wraps long table titles in the terminal.
	titleWidth = 100
	// cellWidth truncates long cells such as simplified model paths.
	cellWidth = 32
)

// PrintSummary writes every graded block of page as a terminal table, under
// the heading it belongs to. Blocks without a table are skipped.
func PrintSummary(w io.Writer, page Page) {
	for _, b := range page.Blocks {
		switch {
		case b.Type == Head1 || b.Type == Head2:
			fmt.Fprintln(w, sectionStyle.Render(b.Heading))
		case b.Empty:
			continue
		case b.Table != nil && b.Type == Metrics:
			printGraded(w, b)
		case b.Super != nil:
			printSuper(w, b)
		}
	}
}

func printGraded(w io.Writer, b Block) {
	if b.Title != "" {
		fmt.Fprintln(w, titleStyle.Render(util.WrapToWidth(b.Title, titleWidth)))
	}
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(prettytable.StyleLight)

	header := make(prettytable.Row, len(b.Table.Header))
	for i, h := range b.Table.Header {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range b.Table.Rows {
		r := make(prettytable.Row, len(row))
		for j, c := range row {
			r[j] = colorCell(c)
		}
		t.AppendRow(r)
	}
	if b.Criteria != nil {
		all := b.Tally.All()
		footer := prettytable.Row{"pass/total", fmt.Sprintf("%d/%d", all.Pass, all.Total)}
		t.AppendFooter(footer)
	}
	t.Render()
}

func printSuper(w io.Writer, b Block) {
	if b.Title != "" {
		fmt.Fprintln(w, titleStyle.Render(b.Title))
	}
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(prettytable.StyleLight)
	t.AppendHeader(prettytable.Row{"Metric", "Value", "Criteria"})
	for _, r := range b.Super {
		t.AppendRow(prettytable.Row{r.Metric, colorCell(r.Cell), r.Criterion})
	}
	t.Render()
}

func colorCell(c criteria.Cell) string {
	text := util.TruncateRunes(c.Text, cellWidth)
	if !c.Graded {
		return text
	}
	switch c.Grade {
	case criteria.Pass:
		return passText(text)
	case criteria.Fail:
		return failText(text)
	}
	return text
}
