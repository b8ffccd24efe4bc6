package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/notedraft/internal/content"
)

var segmentFormat string

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split a note into text and image parts",
	Long: `Split a note into text and image parts.

Reads the note from file, or from stdin when no file is given.

Examples:
  notedraft segment note.txt
  echo "gm https://x.com/a.png" | notedraft segment --format json
  notedraft segment note.txt --format html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		seg, err := cfg.Segmenter()
		if err != nil {
			return err
		}

		return writeParts(cmd.OutOrStdout(), seg.Segment(string(data)), segmentFormat)
	},
}

// writeParts prints parts in the given format: text, json or html.
func writeParts(w io.Writer, parts []content.Part, format string) error {
	switch format {
	case "", "text":
		for _, p := range parts {
			if p.Kind == content.KindImage {
				fmt.Fprintf(w, "image %s\n", p.Value)
				continue
			}
			fmt.Fprintf(w, "text  %q\n", p.Value)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(parts)
	case "html":
		_, err := fmt.Fprintln(w, content.HTML(parts))
		return err
	default:
		return fmt.Errorf("unknown format %q (must be text, json, or html)", format)
	}
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().StringVarP(&segmentFormat, "format", "f", "text", "output format (text, json, html)")
}
