package apexreport

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jqliu1995/Code-for-APEX/internal/appconfig"
	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/report"
	"github.com/jqliu1995/Code-for-APEX/internal/util"
	"github.com/spf13/cobra"
)

// publish assembles doc and writes the HTML report to output, followed by the
// optional Markdown companion, terminal summary and model dump.
func publish(cmd *cobra.Command, doc report.Document, rc report.RunContext, output string, cfg appconfig.Config) error {
	out := cmd.OutOrStdout()

	if cfg.DumpModel {
		colored := !color.NoColor && out == os.Stdout
		if err := report.Dump(out, doc, colored); err != nil {
			return fmt.Errorf("dump document: %w", err)
		}
	}

	page := report.Assemble(doc, rc)
	html, err := report.RenderString(page)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := util.WriteFile(output, []byte(html)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logging.LogEvent("wrote %s (%d blocks)", output, len(page.Blocks))

	if cfg.MarkdownOutput != "" {
		md, err := report.Markdown(html)
		if err != nil {
			return fmt.Errorf("convert report to markdown: %w", err)
		}
		if err := util.WriteFile(cfg.MarkdownOutput, []byte(md)); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		logging.LogEvent("wrote %s", cfg.MarkdownOutput)
	}

	if cfg.Summary {
		report.PrintSummary(out, page)
	}
	fmt.Fprintf(out, "Report written to %s\n", output)
	return nil
}
