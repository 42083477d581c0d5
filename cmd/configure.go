package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/skiffshell/skiff/config"
)

var configureArgs struct {
	CommandsDirectory string
	Colors            bool
	Override          bool
}

func newConfigureCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "configure",
		Short: "Use an interactive questionnaire to write the configuration file.",
		Run:   configureCmdRun,
	}

	command.PersistentFlags().StringVar(&configureArgs.CommandsDirectory, "commands-directory", "", "directory external commands are looked up in")
	command.PersistentFlags().BoolVar(&configureArgs.Override, "override", false, "override an existing configuration file")

	return command
}

func configureCmdRun(cmd *cobra.Command, _ []string) {
	if _, err := os.Stat(configPath); err == nil && !configureArgs.Override {
		survey.AskOne(&survey.Confirm{Message: "Override existing configuration file"}, &configureArgs.Override)
		if !configureArgs.Override {
			fmt.Println("Aborting configuration.")
			os.Exit(1)
		}
	}

	var questions []*survey.Question
	if configureArgs.CommandsDirectory == "" {
		questions = append(questions, &survey.Question{
			Name: "CommandsDirectory",
			Prompt: &survey.Input{
				Message: "Commands directory (empty for the working directory at startup): ",
			},
		})
	}
	questions = append(questions, &survey.Question{
		Name:   "Colors",
		Prompt: &survey.Confirm{Message: "Enable prompt colors", Default: true},
	})

	if err := survey.Ask(questions, &configureArgs); err != nil {
		if err == terminal.InterruptErr {
			fmt.Println("Configuration aborted.")
			os.Exit(1)
		}
		fmt.Printf("failed to run the questionnaire: %s\n", err)
		os.Exit(1)
	}

	c, err := config.NewAtPath(configPath)
	if err != nil {
		fmt.Printf("failed to build the configuration: %s\n", err)
		os.Exit(1)
	}
	c.Shell.CommandsDirectory = configureArgs.CommandsDirectory
	c.Shell.Colors = configureArgs.Colors

	if err := c.WriteToDisk(); err != nil {
		fmt.Printf("failed to write the configuration file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration written to %s.\n", configPath)
}
