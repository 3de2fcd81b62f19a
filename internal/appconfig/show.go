package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Output:          %s\n", cfg.OutputPath())
	fmt.Fprintf(out, "  Markdown Output: %s\n", cfg.MarkdownOutput)
	fmt.Fprintf(out, "  Job Address:     %s\n", cfg.JobAddress)
	fmt.Fprintf(out, "  Version File:    %s\n", cfg.VersionFile)
	fmt.Fprintf(out, "  CV Threshold:    %g\n", cfg.CV())
	fmt.Fprintf(out, "  MAE Threshold:   %g\n", cfg.MAE())
	fmt.Fprintf(out, "  Summary:         %v\n", cfg.Summary)
	fmt.Fprintf(out, "  Dump Model:      %v\n", cfg.DumpModel)
}
