// cmd/apexreport/main.go
package main

import (
	apexreport "github.com/jqliu1995/Code-for-APEX/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the apexreport CLI by delegating to the cobra root command.
func main() {
	apexreport.SetVersionInfo(version, commit, date)
	apexreport.Execute()
}
