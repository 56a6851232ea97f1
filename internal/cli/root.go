package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"benri/internal/config"
	"benri/internal/logging"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func successMsg(msg string) string { return green("✅ " + msg) }
func errorMsg(msg string) string   { return red("❌ " + msg) }
func infoMsg(msg string) string    { return cyan("📋 " + msg) }
func warnMsg(msg string) string    { return yellow("⚠️  " + msg) }

var (
	cfgFile string
	cfg     *config.Config
	logger  logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "benri",
	Short: "Personal automation toolbox",
	Long: `benri bundles small personal automations behind one command:
LINE push messages, Slack channel digests relayed to LINE, YouTube
search, Amazon product scraping with Google Sheets sync, Gmail sending
and Zoom meeting creation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.benri.yaml)")

	rootCmd.AddCommand(lineCmd)
	rootCmd.AddCommand(slackCmd)
	rootCmd.AddCommand(slacklineCmd)
	rootCmd.AddCommand(youtubeCmd)
	rootCmd.AddCommand(amazonCmd)
	rootCmd.AddCommand(sheetsCmd)
	rootCmd.AddCommand(gmailCmd)
	rootCmd.AddCommand(zoomCmd)
}

func initConfig() error {
	path := cfgFile
	if path == "" {
		viper.SetConfigName(".benri")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err == nil {
			path = viper.ConfigFileUsed()
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	logger = logging.NewWriterLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMsg(err.Error()))
		os.Exit(1)
	}
}
