package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"benri/internal/gmail"
)

var (
	gmailTo      string
	gmailSubject string
	gmailBody    string
)

var gmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Send mail via the Gmail API",
}

var gmailSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a plain-text mail as the authorized user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Gmail.Validate(); err != nil {
			return err
		}
		if gmailTo == "" {
			return fmt.Errorf("--to is required")
		}

		sender, err := gmail.NewSender(cmd.Context(),
			cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile, logger)
		if err != nil {
			return err
		}

		id, err := sender.Send(cmd.Context(), gmailTo, gmailSubject, gmailBody)
		if err != nil {
			return err
		}
		fmt.Println(successMsg("送信しました"))
		fmt.Printf("  %s %s\n", bold("宛先　　　　:"), gmailTo)
		fmt.Printf("  %s %s\n", bold("件名　　　　:"), gmailSubject)
		fmt.Printf("  %s %s\n", bold("メッセージID:"), id)
		return nil
	},
}

func init() {
	gmailSendCmd.Flags().StringVar(&gmailTo, "to", "", "recipient address")
	gmailSendCmd.Flags().StringVar(&gmailSubject, "subject", "テスト送信", "mail subject")
	gmailSendCmd.Flags().StringVar(&gmailBody, "body", "これはGmail APIからのテスト送信です。", "mail body")
	gmailCmd.AddCommand(gmailSendCmd)
}
