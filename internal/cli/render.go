package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/export"
	"github.com/vanderheijden86/mindmap/pkg/hooks"
	"github.com/vanderheijden86/mindmap/pkg/watcher"
)

type renderFlags struct {
	output  string
	format  string
	preset  string
	theme   string
	title   string
	watch   bool
	noHooks bool
}

func newRenderCmd(app *App) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <script.yaml>",
		Short: "Replay a script and write a snapshot",
		Long: `Replay a script on a fresh session and write the resulting map as SVG or PNG.
Drafts left open by the script are drawn as the editor would show them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output == "" {
				f.output = "mindmap"
			}
			if !f.watch {
				return app.renderOnce(cmd, args[0], f)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.renderWatch(ctx, cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output path (extension picks the format)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: svg or png")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Spacing preset: compact or roomy")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Colour theme: light or dark")
	cmd.Flags().StringVar(&f.title, "title", "", "Title line above the map")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Re-render whenever the script changes")
	cmd.Flags().BoolVar(&f.noHooks, "no-hooks", false, "Skip export hooks in .mindmap/hooks.yaml")

	return cmd
}

func (app *App) snapshotOptions(f renderFlags) export.Options {
	opts := export.Options{
		Path:   f.output,
		Format: f.format,
		Title:  f.title,
		Preset: f.preset,
		Theme:  f.theme,
		Layout: app.Config.LayoutOptions(),
	}
	if opts.Format == "" && opts.Path == "mindmap" {
		opts.Format = app.Config.Export.Format
	}
	if opts.Preset == "" {
		opts.Preset = app.Config.Export.Preset
	}
	if opts.Theme == "" && app.Config.UI.Theme != "auto" {
		opts.Theme = app.Config.UI.Theme
	}
	return opts
}

func (app *App) renderOnce(cmd *cobra.Command, path string, f renderFlags) error {
	sess, results, err := app.replay(path, app.sessionOptions())
	if err != nil {
		return err
	}
	opts := app.snapshotOptions(f)
	opts.Drafts = sess.Drafts()
	opts.Selected = sess.SelectedID()
	target, format, err := export.ResolveTarget(opts.Path, opts.Format)
	if err != nil {
		return err
	}

	hx, err := hooks.RunHooks(filepath.Dir(path), hooks.ExportContext{
		ExportPath:   target,
		ExportFormat: format,
		NodeCount:    sess.Tree().Len(),
		Timestamp:    time.Now(),
	}, f.noHooks)
	if err != nil {
		return err
	}
	defer reportHooks(cmd, hx)
	if hx != nil {
		if err := hx.RunPreExport(); err != nil {
			return err
		}
	}

	out, err := export.SaveSnapshot(sess.Tree(), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d steps applied, %d nodes -> %s\n",
		path, countApplied(results), len(results), sess.Tree().Len(), out)

	if hx != nil {
		hx.SetExport(out, format)
		return hx.RunPostExport()
	}
	return nil
}

func reportHooks(cmd *cobra.Command, hx *hooks.Executor) {
	if hx == nil {
		return
	}
	if s := hx.Summary(); s != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), s)
	}
}

// renderWatch renders once, then again after every change until ctx ends.
// Failed re-renders are reported and the watch continues.
func (app *App) renderWatch(ctx context.Context, cmd *cobra.Command, path string, f renderFlags) error {
	if err := app.renderOnce(cmd, path, f); err != nil {
		return err
	}

	w, err := watcher.New(path,
		watcher.WithDebounce(app.Config.Watch.Debounce),
		watcher.WithPollInterval(app.Config.Watch.PollInterval),
		watcher.WithForcePoll(app.Config.Watch.ForcePoll),
		watcher.WithOnError(func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	mode := "fsnotify"
	if w.IsPolling() {
		mode = "polling"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (%s), Ctrl+C to stop\n", path, mode)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changed():
			debug.Log("render: %s changed", path)
			if err := app.renderOnce(cmd, path, f); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
			}
		}
	}
}
