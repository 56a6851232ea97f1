package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"benri/internal/slack"
)

var slackChannel string

var slackCmd = &cobra.Command{
	Use:   "slack",
	Short: "Post to Slack",
}

var slackPostCmd = &cobra.Command{
	Use:   "post [message...]",
	Short: "Post a message to a Slack channel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Slack.Validate(); err != nil {
			return err
		}
		channel := slackChannel
		if channel == "" {
			channel = cfg.Slack.DefaultChannel
		}
		if channel == "" {
			return fmt.Errorf("no channel given and slack.default_channel is unset")
		}

		client, err := slack.NewClient(cfg.Slack.BotToken, logger)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if err := client.PostMessage(cmd.Context(), channel, text); err != nil {
			return fmt.Errorf("post message: %w", err)
		}
		fmt.Println(successMsg(fmt.Sprintf("%s に投稿しました", channel)))
		return nil
	},
}

var slackTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify the Slack bot token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Slack.Validate(); err != nil {
			return err
		}
		client, err := slack.NewClient(cfg.Slack.BotToken, logger)
		if err != nil {
			return err
		}

		identity, err := client.AuthTest(cmd.Context())
		if err != nil {
			return fmt.Errorf("auth test: %w", err)
		}
		fmt.Println(successMsg("Slack認証に成功しました"))
		fmt.Printf("  %s %s\n", bold("Team:"), identity.Team)
		fmt.Printf("  %s %s (%s)\n", bold("Bot :"), identity.User, identity.UserID)
		return nil
	},
}

func init() {
	slackPostCmd.Flags().StringVarP(&slackChannel, "channel", "c", "", "channel name (#general) or ID")
	slackCmd.AddCommand(slackPostCmd)
	slackCmd.AddCommand(slackTestCmd)
}
