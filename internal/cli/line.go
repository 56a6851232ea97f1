package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"benri/internal/line"
)

var lineTo string

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Send LINE push messages",
}

var lineSendCmd = &cobra.Command{
	Use:   "send [message...]",
	Short: "Push a message to a LINE user",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Line.ValidatePush(); err != nil {
			return err
		}
		to := lineTo
		if to == "" {
			to = cfg.Line.UserID
		}

		client, err := line.NewClient(cfg.Line.ChannelAccessToken, logger)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if err := client.PushLong(cmd.Context(), to, text); err != nil {
			return fmt.Errorf("push message: %w", err)
		}
		fmt.Println(successMsg("LINEにメッセージを送信しました"))
		return nil
	},
}

func init() {
	lineSendCmd.Flags().StringVar(&lineTo, "to", "", "recipient user ID (default: configured LINE_USER_ID)")
	lineCmd.AddCommand(lineSendCmd)
}
