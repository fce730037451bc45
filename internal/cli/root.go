package cli

import (
	"errors"

	"github.com/HKK13/hello-bott/internal/app"
	"github.com/HKK13/hello-bott/internal/cli/formatter"
	"github.com/HKK13/hello-bott/internal/logging"
	"github.com/spf13/cobra"
)

// Opener builds the bot from a config file path. An empty path means
// defaults and environment only.
type Opener func(configPath string) (*app.App, error)

// session carries the App opened for the running command.
type session struct {
	open       Opener
	configPath string
	noColor    bool
	app        *app.App
}

// NewRootCmd creates the top-level "hellobott" command. The App is opened
// lazily so --config applies to every subcommand.
func NewRootCmd(open Opener) *cobra.Command {
	s := &session{open: open}

	root := &cobra.Command{
		Use:           "hellobott",
		Short:         "Chat bot that tracks team workdays",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.noColor || !logging.IsTerminal(cmd.OutOrStdout()) {
				formatter.DisableColor()
			}
			if s.open == nil {
				return errors.New("no application configured")
			}
			a, err := s.open(s.configPath)
			if err != nil {
				return err
			}
			s.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.app == nil {
				return nil
			}
			err := s.app.Close()
			s.app = nil
			return err
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "Path to a YAML config file (default $HELLOBOTT_CONFIG)")
	root.PersistentFlags().BoolVar(&s.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newServeCmd(s),
		newSayCmd(s),
		newWorkdayCmd(s),
		newUserCmd(s),
	)

	return root
}
