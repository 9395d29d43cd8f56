package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/export"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/ui"
)

func newLayoutCmd(app *App) *cobra.Command {
	var asJSON, cells bool

	cmd := &cobra.Command{
		Use:   "layout <script.yaml>",
		Short: "Replay a script and print the computed layout",
		Long: `Replay a script and print every node with its box.
Hidden nodes are listed without a box. --cells lays out in terminal cells,
as the editor does, instead of pixels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.sessionOptions()
			if cells {
				opts.Layout = ui.CellLayout()
				opts.Measurer = measure.NewCached(measure.Terminal())
			}
			sess, _, err := app.replay(args[0], opts)
			if err != nil {
				return err
			}

			res := sess.Layout()
			if asJSON {
				return export.WriteJSON(cmd.OutOrStdout(), export.NewLayoutDump(sess.Tree(), sess.Drafts(), res, sess.LayoutOptions()))
			}
			return writeLayoutTable(cmd, sess, res)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&cells, "cells", false, "Lay out in terminal cells")

	return cmd
}

func writeLayoutTable(cmd *cobra.Command, sess *editor.Session, res layout.Result) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTEXT\tX\tY\tW\tH")
	for _, n := range res.Resolve(sess.Tree(), sess.Drafts()) {
		text := strings.Repeat("  ", n.Depth) + oneLine(n.Text)
		if n.Drafting {
			text += " *"
		}
		if n.Box == nil {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\n", n.ID, text)
			continue
		}
		b := n.Box
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\n", n.ID, text, b.X, b.Y, b.Width, b.Height)
	}
	if b, ok := res.Bounds(); ok {
		fmt.Fprintf(w, "\nbounds\t%.1f x %.1f\n", b.Width(), b.Height())
	}
	return w.Flush()
}

func oneLine(s string) string {
	return runewidth.Truncate(strings.Join(strings.Fields(s), " "), 40, "…")
}
