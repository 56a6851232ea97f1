package cli

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"benri/internal/youtube"
)

var youtubeMaxResults int

var youtubeCmd = &cobra.Command{
	Use:   "youtube [keyword...]",
	Short: "Search YouTube videos by keyword",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.YouTube.Validate(); err != nil {
			return err
		}

		keyword := strings.Join(args, " ")
		if strings.TrimSpace(keyword) == "" {
			prompt := promptui.Prompt{
				Label: "検索キーワード",
				Validate: func(input string) error {
					if strings.TrimSpace(input) == "" {
						return fmt.Errorf("キーワードを入力してください")
					}
					return nil
				},
			}
			entered, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("read keyword: %w", err)
			}
			keyword = entered
		}

		searcher, err := youtube.NewSearcher(cmd.Context(), cfg.YouTube.APIKey, logger)
		if err != nil {
			return err
		}

		videos, err := searcher.Search(cmd.Context(), keyword, youtubeMaxResults)
		if err != nil {
			return err
		}
		fmt.Println(youtube.FormatResults(videos))
		return nil
	},
}

func init() {
	youtubeCmd.Flags().IntVarP(&youtubeMaxResults, "max-results", "n", youtube.DefaultMaxResults, "max videos to return")
}
