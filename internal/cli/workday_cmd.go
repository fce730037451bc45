package cli

import (
	"errors"
	"fmt"

	"github.com/HKK13/hello-bott/internal/cli/formatter"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkdayCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workday",
		Short: "Inspect recorded workdays",
	}

	cmd.AddCommand(
		newWorkdayShowCmd(s),
		newWorkdayListCmd(s),
	)

	return cmd
}

func newWorkdayShowCmd(s *session) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's most recent workday",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := s.app.Workdays.Current(cmd.Context(), user)
			if errors.Is(err, domain.ErrNoWorkday) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No workday recorded for "+user+"."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkday(w, s.app.Clock.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Chat user id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newWorkdayListCmd(s *session) *cobra.Command {
	var user string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's workdays, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			workdays, err := s.app.Workdays.History(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkdayList(workdays, s.app.Clock.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Chat user id")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of workdays to show")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
