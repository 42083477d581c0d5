package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiffshell/skiff/system"
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Prints the current executable version and exits.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("skiff v%s\n", system.Version)
	},
}
