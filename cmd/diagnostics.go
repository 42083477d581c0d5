package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/skiffshell/skiff/config"
	"github.com/skiffshell/skiff/entry"
	"github.com/skiffshell/skiff/system"
)

type diagnosticsReport struct {
	Version     string                `json:"version"`
	GoVersion   string                `json:"go_version"`
	OS          string                `json:"os"`
	Arch        string                `json:"arch"`
	Uid         int                   `json:"uid"`
	WorkingDir  string                `json:"working_directory"`
	CommandsDir diagnosticsDirectory  `json:"commands_directory"`
	Config      *config.Configuration `json:"config"`
}

type diagnosticsDirectory struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Readable bool   `json:"readable"`
}

func newDiagnosticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Collect and report information about this skiff install to assist in debugging.",
		PreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
			initLogging()
		},
		Run: diagnosticsCmdRun,
	}
}

func diagnosticsCmdRun(cmd *cobra.Command, _ []string) {
	c := config.Get()
	cwd, _ := os.Getwd()

	dir := system.FirstNotEmpty(c.Shell.CommandsDirectory, cwd)
	report := diagnosticsReport{
		Version:    system.Version,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Uid:        os.Getuid(),
		WorkingDir: cwd,
		Config:     c,
	}
	report.CommandsDir.Path = dir
	if e, err := entry.Resolve(dir); err == nil {
		report.CommandsDir.Exists = e.IsDir()
		report.CommandsDir.Readable = entry.DirReadable(e)
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf("failed to render the diagnostics report: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}
