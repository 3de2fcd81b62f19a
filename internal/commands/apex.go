// internal/commands/apex.go
package apexreport

import (
	"fmt"
	"time"

	"github.com/jqliu1995/Code-for-APEX/internal/apex"
	"github.com/jqliu1995/Code-for-APEX/internal/archive"
	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// apexCmd builds the APEX elastic/EOS benchmark report from result archives.
var apexCmd = &cobra.Command{
	Use:   "apex <archive|glob>...",
	Short: "Build the APEX benchmark report from result archives",
	Long: `The 'apex' command loads every result archive matching the given paths or
glob patterns, derives elastic and EOS metrics per configuration and model,
grades them against the CV and MAE thresholds and writes a self-contained
HTML report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		paths, err := archive.ExpandInputs(args)
		if err != nil {
			return err
		}
		archives := archive.LoadAll(paths)
		ds := apex.Reconcile(archives)
		logging.LogEvent("reconciled %d models from %d of %d archives", ds.Len(), len(archives), len(paths))

		doc := apex.BuildDocument(ds, apex.Thresholds{CV: cfg.CV(), MAE: cfg.MAE()})
		rc := report.NewRunContext(start, cfg.JobAddress, "", cfg.VersionFile)
		return publish(cmd, doc, rc, cfg.OutputPath(), *cfg)
	},
}

func init() {
	rootCmd.AddCommand(apexCmd)

	apexCmd.Flags().StringP("output", "o", "results.html", "HTML report path")
	apexCmd.Flags().Float64("cvThreshold", apex.DefaultThresholds.CV, "pass threshold for RE and CV values")
	apexCmd.Flags().Float64("maeThreshold", apex.DefaultThresholds.MAE, "pass threshold for EOS MAE values")

	_ = viper.BindPFlag("output", apexCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("cvThreshold", apexCmd.Flags().Lookup("cvThreshold"))
	_ = viper.BindPFlag("maeThreshold", apexCmd.Flags().Lookup("maeThreshold"))
}
