package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/notedraft/internal/app"
)

var (
	composeWatch    bool
	composeReadOnly bool
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a note interactively",
	Long: `Compose a note line by line from stdin.

Plain lines are typed into the draft. Commands:
  /paste TEXT   paste TEXT
  /undo         undo the last group
  /redo         redo the last undone group
  /show         print the draft
  /groups       list undo groups
  /preview      print the draft as preview HTML
  /quit         print the draft and exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd.ErrOrStderr(), composeWatch, composeReadOnly)
		if err != nil {
			return err
		}
		defer application.Shutdown()

		return runCompose(application, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runCompose drives the editor from line-oriented input until EOF or /quit.
// Edit errors are reported and the session continues.
func runCompose(application *app.Application, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		err := composeLine(application, sc.Text(), out)
		switch {
		case errors.Is(err, app.ErrQuit):
			fmt.Fprintln(out, application.Editor().Text())
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return sc.Err()
}

func composeLine(application *app.Application, line string, out io.Writer) error {
	ed := application.Editor()

	if !strings.HasPrefix(line, "/") {
		if ed.Text() != "" {
			line = "\n" + line
		}
		return ed.Type(line)
	}

	name, arg, _ := strings.Cut(line, " ")
	switch name {
	case "/paste":
		return ed.Paste(arg)
	case "/undo":
		return ed.Undo()
	case "/redo":
		return ed.Redo()
	case "/show":
		fmt.Fprintln(out, ed.Text())
	case "/groups":
		writeGroups(out, ed.History().UndoInfo())
	case "/preview":
		fmt.Fprintln(out, application.PreviewHTML())
	case "/quit":
		return app.ErrQuit
	default:
		return fmt.Errorf("unknown command %s", name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().BoolVarP(&composeWatch, "watch", "w", false, "reload the config file when it changes")
	composeCmd.Flags().BoolVarP(&composeReadOnly, "read-only", "R", false, "reject edits")
}
