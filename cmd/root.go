package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyshelf/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "storyshelf",
	Short: "Serve the StoryShelf reading site",
	Long: `StoryShelf serves a single-page reading site for children's books:
a library of chapters, downloadable worksheets and a flip-book reader.
Screens are HTML fragments loaded from a directory or base URL, sanitized
and routed by address-bar hash; accounts and content live in a Supabase
project.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
