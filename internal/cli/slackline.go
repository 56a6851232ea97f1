package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"benri/internal/line"
	"benri/internal/slack"
	"benri/internal/slackline"
)

var (
	relayChannel   string
	relayHours     int
	relayLimit     int
	relayNoSummary bool
	relayDryRun    bool
)

var slacklineCmd = &cobra.Command{
	Use:   "slackline",
	Short: "Relay a Slack channel digest to LINE",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Slack.Validate(); err != nil {
			return err
		}
		channel := relayChannel
		if channel == "" {
			channel = cfg.Slack.DefaultChannel
		}
		if channel == "" {
			return fmt.Errorf("no channel given and slack.default_channel is unset")
		}
		if !relayDryRun {
			if err := cfg.Line.ValidatePush(); err != nil {
				return err
			}
		}

		slackClient, err := slack.NewClient(cfg.Slack.BotToken, logger)
		if err != nil {
			return err
		}

		var sink *line.Client
		if !relayDryRun {
			sink, err = line.NewClient(cfg.Line.ChannelAccessToken, logger)
			if err != nil {
				return err
			}
		}

		fmt.Println(infoMsg(fmt.Sprintf("Slackチャンネル %s からメッセージを取得中...", channel)))
		relay := slackline.NewRelay(slackClient, sink, logger)
		result, err := relay.Run(cmd.Context(), cfg.Line.UserID, slackline.Options{
			Channel:   channel,
			Window:    time.Duration(relayHours) * time.Hour,
			Limit:     relayLimit,
			NoSummary: relayNoSummary,
			DryRun:    relayDryRun,
		})
		if err != nil {
			return err
		}

		if result.MessageCount == 0 {
			fmt.Println(warnMsg("メッセージが見つかりませんでした"))
			return nil
		}
		fmt.Println(successMsg(fmt.Sprintf("%d件のメッセージを取得しました", result.MessageCount)))

		if relayDryRun {
			fmt.Println(infoMsg("送信予定のメッセージ:"))
			fmt.Println(result.Summary)
			return nil
		}
		fmt.Println(successMsg("LINEへの送信が完了しました"))
		return nil
	},
}

func init() {
	slacklineCmd.Flags().StringVarP(&relayChannel, "channel", "c", "", "channel name (#general) or ID")
	slacklineCmd.Flags().IntVar(&relayHours, "hours", 24, "how many hours of history to fetch")
	slacklineCmd.Flags().IntVar(&relayLimit, "limit", 100, "max messages to fetch")
	slacklineCmd.Flags().BoolVar(&relayNoSummary, "no-summary", false, "send every message instead of a digest")
	slacklineCmd.Flags().BoolVar(&relayDryRun, "dry-run", false, "print the digest instead of sending it")
}
