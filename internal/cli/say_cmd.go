package cli

import (
	"strings"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/spf13/cobra"
)

func newSayCmd(s *session) *cobra.Command {
	var user, channel string

	cmd := &cobra.Command{
		Use:   "say <text>",
		Short: "Run one chat command locally and print the bot's reply",
		Example: `  hellobott say --user U024BE7LH start writing docs
  hellobott say --user U024BE7LH status`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if channel == "" {
				channel = "D" + user
			}
			msg := chat.Message{User: user, Channel: channel, Text: strings.Join(args, " ")}
			err := s.app.Dispatcher.DispatchTo(cmd.Context(), msg, chat.WriterReplier{W: cmd.OutOrStdout()})
			// Rejections are already printed as the reply.
			if err != nil && domain.Classify(err) == domain.KindInternal {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Chat user id to act as")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel id (default: direct message)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
