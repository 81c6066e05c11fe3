// Package commands implements the CLI commands for docscrub.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscrub-cli",
		Short: "Strip boilerplate from HTML and normalize it into paragraphs",
		Long: `docscrub-cli removes navigation, ads, social widgets, scripts and
similar chrome from an HTML document and rewrites loose inline text into
paragraphs, then prints the result as Markdown, text or HTML.

Examples:
  # Clean a saved page to Markdown
  docscrub-cli clean page.html

  # Read from stdin, print HTML and per-pass statistics
  curl -s https://example.com | docscrub-cli clean --format html --stats

  # Keep only the article, drop asides
  docscrub-cli clean page.html --include article --exclude aside`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initLogger(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default $HOME/.docscrub.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "suppress logging below error")

	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", cmd.PersistentFlags().Lookup("quiet"))

	cmd.AddCommand(newCleanCmd(), newPatternsCmd())
	return cmd
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".docscrub")
		viper.SetConfigType("yaml")
	}

	// DOCSCRUB_FORMAT, DOCSCRUB_MAX_INPUT, ...
	viper.SetEnvPrefix("DOCSCRUB")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

func initLogger(w io.Writer) {
	level := slog.LevelWarn
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	if viper.GetBool("quiet") {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
