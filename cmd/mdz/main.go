package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/docker/go-units"
	"github.com/logicossoftware/go-mdz"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mdz",
	Short: "Inspect and produce .mdz Markdown bundles",
	Long: `mdz packages a Markdown document together with its images, Mermaid
diagrams, and metadata into a single compressed .mdz file, and unpacks
or inspects existing bundles.`,
	SilenceUsage: true,
}

var (
	createCompression int
	createMethod      string
	createNoImages    bool

	extractNoAssets bool
)

var createCmd = &cobra.Command{
	Use:   "create <markdown-file> <output-file>",
	Short: "Create an MDZ bundle from a markdown file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, err := mdz.ParseCompressionMethod(createMethod)
		if err != nil {
			return err
		}
		return mdz.CreateFromMarkdownFile(args[0], args[1], !createNoImages,
			mdz.WithCompressionLevel(createCompression),
			mdz.WithMethod(method),
		)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <mdz-file> <output-file>",
	Short: "Extract an MDZ bundle to a markdown file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mdz.ExtractToMarkdown(args[0], args[1], !extractNoAssets)
		return err
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <mdz-file>",
	Short: "Show information about an MDZ file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := mdz.Stat(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("MDZ File: %s\n", args[0])
		fmt.Printf("File Size: %s (%d bytes)\n", units.HumanSize(float64(info.FileSize)), info.FileSize)
		fmt.Printf("Compression Method: %s\n", info.Method)
		fmt.Printf("Compression Ratio: %.2fx\n", info.CompressionRatio)
		fmt.Printf("Total Uncompressed Size: %s (%d bytes)\n",
			units.HumanSize(float64(info.TotalUncompressedSize)), info.TotalUncompressedSize)
		fmt.Printf("File Count: %d\n", info.FileCount)
		fmt.Printf("Directory Count: %d\n", info.DirectoryCount)

		fmt.Println("File Types:")
		exts := make([]string, 0, len(info.FileTypes))
		for ext := range info.FileTypes {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			fmt.Printf("  %s: %d\n", ext, info.FileTypes[ext])
		}

		fmt.Println("Metadata:")
		keys := make([]string, 0, len(info.Metadata))
		for k := range info.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %v\n", k, info.Metadata[k])
		}
		return nil
	},
}

func init() {
	createCmd.Flags().IntVar(&createCompression, "compression", mdz.DefaultCompressionLevel,
		"Zstandard compression level (1-22)")
	createCmd.Flags().StringVar(&createMethod, "method", "standard",
		"compression method to use (standard or secure)")
	createCmd.Flags().BoolVar(&createNoImages, "no-images", false,
		"do not include referenced images")
	extractCmd.Flags().BoolVar(&extractNoAssets, "no-assets", false,
		"do not extract assets")
	rootCmd.AddCommand(createCmd, extractCmd, infoCmd)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
