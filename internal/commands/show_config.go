package apexreport

import (
	"github.com/jqliu1995/Code-for-APEX/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := appconfig.Defaults()
		if c := GetConfig(); c != nil {
			cfg = *c
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
