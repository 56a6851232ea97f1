package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"benri/internal/sheets"
)

var sheetsMaxResults int

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Sync data to Google Sheets",
}

var sheetsSyncCmd = &cobra.Command{
	Use:   "sync [keyword...]",
	Short: "Scrape Amazon search results into a spreadsheet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Sheets.Validate(); err != nil {
			return err
		}

		keyword := strings.Join(args, " ")
		products, err := newScraper().Search(cmd.Context(), keyword, sheetsMaxResults)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println(warnMsg("商品データが取得できませんでした"))
			return nil
		}

		syncer, err := sheets.NewSyncer(cmd.Context(),
			cfg.Sheets.ServiceAccountFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.WorksheetName, logger)
		if err != nil {
			return err
		}
		if err := syncer.Sync(cmd.Context(), products); err != nil {
			return err
		}
		fmt.Println(successMsg(
			fmt.Sprintf("「%s」のデータ %d件をスプレッドシートに反映しました", keyword, len(products))))
		return nil
	},
}

func init() {
	sheetsSyncCmd.Flags().IntVarP(&sheetsMaxResults, "max-results", "n", 10, "max products to sync")
	sheetsCmd.AddCommand(sheetsSyncCmd)
}
