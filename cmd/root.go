package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sysmonitor/web-monitor/internal/config"
)

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithDefaults()

	root := &cobra.Command{
		Use:   "web_monitor",
		Short: "Hardware inventory monitor with a web interface",
	}
	root.AddCommand(NewRunCommand(cfg))

	return root
}
