package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"benri/internal/amazon"
)

var (
	amazonMaxResults int
	amazonJSONFile   string
)

var amazonCmd = &cobra.Command{
	Use:   "amazon",
	Short: "Scrape Amazon product data",
}

func newScraper() *amazon.Scraper {
	opts := []amazon.Option{
		amazon.WithDelay(time.Duration(cfg.Amazon.DelaySeconds * float64(time.Second))),
	}
	if cfg.Amazon.BaseURL != "" {
		opts = append(opts, amazon.WithBaseURL(cfg.Amazon.BaseURL))
	}
	return amazon.NewScraper(logger, opts...)
}

func printProduct(i int, p amazon.Product) {
	if i > 0 {
		fmt.Printf("\n--- 商品 %d ---\n", i)
	}
	fmt.Printf("%s %s\n", bold("タイトル:"), p.Title)
	if p.Price != "" {
		fmt.Printf("%s %s\n", bold("価格　　:"), p.Price)
	}
	if p.Rating != "" {
		fmt.Printf("%s %s\n", bold("評価　　:"), p.Rating)
	}
	if p.ReviewCount != "" {
		fmt.Printf("%s %s\n", bold("レビュー:"), p.ReviewCount)
	}
	if p.Availability != "" {
		fmt.Printf("%s %s\n", bold("在庫　　:"), p.Availability)
	}
	if p.URL != "" {
		fmt.Printf("%s %s\n", bold("URL　　 :"), p.URL)
	}
}

var amazonSearchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Search products by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := strings.Join(args, " ")
		products, err := newScraper().Search(cmd.Context(), keyword, amazonMaxResults)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println(warnMsg("商品データが取得できませんでした"))
			return nil
		}

		fmt.Println(successMsg(fmt.Sprintf("「%s」の検索結果: %d件", keyword, len(products))))
		for i, p := range products {
			printProduct(i+1, p)
		}

		if amazonJSONFile != "" {
			if err := amazon.SaveJSON(products, amazonJSONFile); err != nil {
				return err
			}
			fmt.Println(successMsg(fmt.Sprintf("データを %s に保存しました", amazonJSONFile)))
		}
		return nil
	},
}

var amazonProductCmd = &cobra.Command{
	Use:   "product <url>",
	Short: "Fetch one product page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, err := newScraper().Product(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printProduct(0, *product)
		if product.Description != "" {
			fmt.Printf("%s\n%s\n", bold("説明:"), product.Description)
		}
		return nil
	},
}

func init() {
	amazonSearchCmd.Flags().IntVarP(&amazonMaxResults, "max-results", "n", 10, "max products to return")
	amazonSearchCmd.Flags().StringVar(&amazonJSONFile, "json", "", "save results to a JSON file")
	amazonCmd.AddCommand(amazonSearchCmd)
	amazonCmd.AddCommand(amazonProductCmd)
}
