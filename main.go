package main

import (
	"os"

	"github.com/sysmonitor/web-monitor/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
