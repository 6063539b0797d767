package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pdfdeck/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config, logger or storage needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pdfdeck version %s\n", common.GetFullVersion())
	},
}
