package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blackfriday",
	Short: "Convert Markdown files to HTML",
	Long: `blackfriday converts Markdown to HTML using a two-pass parser
in the Sundown/Upskirt lineage.

Examples:
  blackfriday README.md              # Convert a single file to stdout
  blackfriday --out=dist docs/       # Convert every Markdown file under docs/ into dist/
  blackfriday --ext=tables,footnotes README.md
  blackfriday --html=toc,safelink --out=dist README.md`,
	Args: cobra.ArbitraryArgs,
	RunE: runRender,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringSliceVar(&flagExtensions, "ext", nil,
		"Parser extensions to enable (can be repeated or comma-separated); default is the common set")
	rootCmd.Flags().StringSliceVar(&flagHTML, "html", nil,
		"HTML renderer option flags to enable (can be repeated or comma-separated)")
	rootCmd.Flags().StringSliceVar(&flagInclude, "include", nil,
		"Glob patterns for paths to include when a directory is given")
	rootCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil,
		"Glob patterns for paths to exclude when a directory is given")
	rootCmd.Flags().StringVar(&flagOutDir, "out", "",
		"Directory to write converted files to (required when more than one file is converted; optional for a single file)")
	rootCmd.Flags().StringVar(&flagOutExt, "out-ext", ".html",
		"Output file extension used under --out")
	rootCmd.Flags().BoolVar(&flagNoConfig, "no-config", false,
		"Skip loading .blackfriday.yaml config file")
}
