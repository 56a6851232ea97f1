package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"benri/internal/zoom"
)

var (
	zoomTopic    string
	zoomStart    string
	zoomDuration int
	zoomTimezone string
	zoomPassword string
)

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Create Zoom meetings",
}

var zoomCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a scheduled meeting",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Zoom.Validate(); err != nil {
			return err
		}

		var start time.Time
		if zoomStart != "" {
			parsed, err := time.Parse(time.RFC3339, zoomStart)
			if err != nil {
				return fmt.Errorf("parse --start (want RFC3339, e.g. 2026-03-01T10:00:00+09:00): %w", err)
			}
			start = parsed
		}

		client, err := zoom.NewClient(zoom.Credentials{
			AccountID:    cfg.Zoom.AccountID,
			ClientID:     cfg.Zoom.ClientID,
			ClientSecret: cfg.Zoom.ClientSecret,
		}, logger)
		if err != nil {
			return err
		}

		meeting, err := client.CreateMeeting(cmd.Context(), zoom.MeetingRequest{
			Topic:     zoomTopic,
			StartTime: start,
			Duration:  time.Duration(zoomDuration) * time.Minute,
			Timezone:  zoomTimezone,
			Password:  zoomPassword,
		})
		if err != nil {
			return err
		}

		fmt.Println(successMsg("Zoom会議が作成されました"))
		fmt.Printf("  %s %d\n", bold("Meeting ID:"), meeting.ID)
		if meeting.Password != "" {
			fmt.Printf("  %s %s\n", bold("Password  :"), meeting.Password)
		}
		fmt.Printf("  %s %s\n", bold("Join URL  :"), meeting.JoinURL)
		fmt.Printf("  %s %s\n", bold("Start URL :"), meeting.StartURL)
		return nil
	},
}

func init() {
	zoomCreateCmd.Flags().StringVar(&zoomTopic, "topic", "テスト会議", "meeting topic")
	zoomCreateCmd.Flags().StringVar(&zoomStart, "start", "", "start time in RFC3339 (default: 5 minutes from now)")
	zoomCreateCmd.Flags().IntVar(&zoomDuration, "duration", 60, "duration in minutes")
	zoomCreateCmd.Flags().StringVar(&zoomTimezone, "timezone", "", "IANA timezone for the start time")
	zoomCreateCmd.Flags().StringVar(&zoomPassword, "password", "", "meeting password")
	zoomCmd.AddCommand(zoomCreateCmd)
}
