package cmd

import (
	log2 "log"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/skiffshell/skiff/applets"
	"github.com/skiffshell/skiff/config"
	"github.com/skiffshell/skiff/loggers/cli"
	"github.com/skiffshell/skiff/shell"
)

var (
	configPath = defaultConfigPath()
	debug      = false
)

var rootCommand = &cobra.Command{
	Use:   "skiff",
	Short: "Runs an interactive shell over a miniature set of filesystem utilities.",
	PreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
		initLogging()
	},
	Run: rootCmdRun,
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		log2.Fatalf("failed to execute command: %s", err)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultLocation
	}
	return filepath.Join(home, config.DefaultLocation)
}

func init() {
	rootCommand.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "set the location for the configuration file")
	rootCommand.PersistentFlags().BoolVar(&debug, "debug", false, "pass in order to run the shell in debug mode")

	rootCommand.AddCommand(versionCommand)
	rootCommand.AddCommand(newConfigureCommand())
	rootCommand.AddCommand(newDiagnosticsCommand())
	for _, a := range applets.All() {
		rootCommand.AddCommand(newAppletCommand(a))
	}
}

// newAppletCommand wraps one applet as a cobra subcommand. Flag parsing is
// disabled: the applets implement the utility option grammar themselves,
// including combined short options and "--mode=" style arguments.
func newAppletCommand(a applets.Applet) *cobra.Command {
	return &cobra.Command{
		Use:                a.Name,
		Short:              a.Summary,
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(a.Main(applets.NewProcContext(), args))
		},
	}
}

// Reads the configuration from the disk and then sets up the global
// singleton with all the configuration values.
func initConfig() {
	if err := config.FromFile(configPath); err != nil {
		log2.Fatalf("failed to load configuration: %s", err)
	}
	config.SetDebugViaFlag(debug)
}

// Configures the global logger instance so anything below it inherits the
// handler and level.
func initLogging() {
	log.SetHandler(cli.Default)
	if config.Get().Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func rootCmdRun(cmd *cobra.Command, _ []string) {
	c := config.Get()
	s, err := shell.New(shell.Options{
		AppHome: c.Shell.CommandsDirectory,
		Colors:  c.Shell.Colors,
	})
	if err != nil {
		log.WithField("error", err).Fatal("failed to initialize the shell")
	}
	if err := s.Run(); err != nil {
		log.WithField("error", err).Fatal("shell terminated abnormally")
	}
}
