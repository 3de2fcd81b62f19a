// internal/commands/render.go
package apexreport

import (
	"fmt"
	"time"

	"github.com/jqliu1995/Code-for-APEX/internal/report"
	"github.com/spf13/cobra"
)

const defaultRenderOutput = "abacustest.html"

// renderCmd builds a report from a settings file listing its content items.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build a report from a settings file",
	Long: `The 'render' command reads a JSON or YAML settings file whose 'report'
section lists content items (headings, text, images, csv tables, metrics and
supermetrics), and writes them as one HTML report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		param, _ := cmd.Flags().GetString("param")
		output, _ := cmd.Flags().GetString("output")

		doc, err := report.LoadSettings(param)
		if err != nil {
			return fmt.Errorf("load settings %s: %w", param, err)
		}
		rc := report.NewRunContext(start, cfg.JobAddress, "", cfg.VersionFile)
		return publish(cmd, doc, rc, output, *cfg)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("param", "p", "", "settings file (JSON or YAML)")
	renderCmd.Flags().StringP("output", "o", defaultRenderOutput, "HTML report path")
	_ = renderCmd.MarkFlagRequired("param")
}
