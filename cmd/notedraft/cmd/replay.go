package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/notedraft/internal/app"
	"github.com/dshills/notedraft/internal/editor"
	"github.com/dshills/notedraft/internal/engine/history"
	"github.com/dshills/notedraft/internal/replay"
)

var (
	replayUndo int
	replayJSON bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <log.jsonl>",
	Short: "Replay a recorded editing session",
	Long: `Replay a recorded editing session and print its undo groups.

The log is JSON lines, one edit per line:
  {"t": 1000, "kind": "paste", "text": "gm nostr"}
  {"t": 1001, "kind": "insert", "text": "!"}

Examples:
  notedraft replay session.jsonl
  notedraft replay session.jsonl --undo 1
  notedraft replay session.jsonl --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		entries, err := replay.Parse(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

		r := replay.NewReplayer(logger, editor.WithConfig(cfg))
		res, err := r.Run(entries)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		for i := 0; i < replayUndo; i++ {
			if err := r.Editor().Undo(); err != nil {
				if errors.Is(err, history.ErrNothingToUndo) {
					break
				}
				return err
			}
		}
		if replayUndo > 0 {
			res = r.Result()
		}

		return writeResult(cmd.OutOrStdout(), res, replayJSON)
	},
}

func writeResult(w io.Writer, res *replay.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "%d entries, %d undo groups, %d paste boundaries\n",
		res.Entries, len(res.Groups), res.Boundaries)
	writeGroups(w, res.Groups)
	fmt.Fprintf(w, "\n%s\n", res.Text)
	return nil
}

// writeGroups lists undo groups oldest first.
func writeGroups(w io.Writer, groups []history.GroupInfo) {
	for i, g := range groups {
		fmt.Fprintf(w, "%3d. %s (%d edits, %+d bytes, %s)\n",
			i+1, g.Description, g.Transactions, g.BytesDelta, g.End.Sub(g.Start))
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().IntVar(&replayUndo, "undo", 0, "undo N groups after replaying")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the result as JSON")
}
