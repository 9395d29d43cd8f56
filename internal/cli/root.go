// Package cli wires the mindmap commands: the interactive editor by default,
// plus headless render, layout and export commands driven by scripts.
package cli

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/export"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/script"
	"github.com/vanderheijden86/mindmap/pkg/ui"
)

// App holds the persistent flags and the loaded configuration.
type App struct {
	ConfigPath string
	Debug      bool
	Stats      bool
	CPUProfile string

	Config config.Config

	profile *os.File
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &App{Config: config.DefaultConfig()}
	var noMouse bool

	cmd := &cobra.Command{
		Use:          "mindmap [script.yaml]",
		Short:        "Mind-map editor for the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Start the editor on the starter map
  mindmap

  # Open the result of a script in the editor
  mindmap plan.yaml

  # Render a script headlessly
  mindmap render plan.yaml -o plan.svg

  # Re-render whenever the script changes
  mindmap render plan.yaml -o plan.png --watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			m, err := app.editorModel(args)
			if err != nil {
				return err
			}
			return ui.Run(m, app.Config.UI.MouseEnabled() && !noMouse)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.teardown(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default: $MINDMAP_CONFIG or $XDG_CONFIG_HOME/mindmap/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug logging (MINDMAP_DEBUG_FILE redirects it)")
	cmd.PersistentFlags().BoolVar(&app.Stats, "stats", false, "Print timing metrics to stderr on exit")
	cmd.PersistentFlags().StringVar(&app.CPUProfile, "cpu-profile", "", "Write CPU profile to file")
	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse support")

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (app *App) setup() error {
	if app.Debug {
		debug.SetEnabled(true)
	}
	if app.Stats {
		metrics.SetEnabled(true)
	}

	var err error
	if app.ConfigPath != "" {
		app.Config, err = config.LoadFrom(app.ConfigPath)
	} else {
		app.Config, err = config.Load()
	}
	if err != nil {
		return err
	}
	debug.Dump("config", app.Config)

	if app.CPUProfile != "" {
		f, err := os.Create(app.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		app.profile = f
	}
	return nil
}

func (app *App) teardown(cmd *cobra.Command) error {
	defer debug.Sync()
	if app.profile != nil {
		pprof.StopCPUProfile()
		app.profile.Close()
		app.profile = nil
	}
	if app.Stats {
		return metrics.WriteReport(cmd.ErrOrStderr())
	}
	return nil
}

// sessionOptions lay out with the export measurer, so scripted drags hit
// the boxes a snapshot shows.
func (app *App) sessionOptions() editor.Options {
	return editor.Options{
		Layout:       app.Config.LayoutOptions(),
		Measurer:     measure.NewCached(export.TextMeasurer()),
		HistoryLimit: app.Config.History.Limit,
		HitPadding:   app.Config.Drag.HitPadding,
	}
}

// replay loads a script and runs it on a fresh session.
func (app *App) replay(path string, opts editor.Options) (*editor.Session, []script.Result, error) {
	sc, err := script.Load(path)
	if err != nil {
		return nil, nil, err
	}
	sess, err := sc.Session(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	results, err := script.Run(sess, sc)
	if err != nil {
		return nil, results, fmt.Errorf("%s: %w", path, err)
	}
	return sess, results, nil
}

// editorModel opens the editor on the starter map, or on the document a
// script produces. Scripts replay inside the editor's own session so their
// history stays undoable.
func (app *App) editorModel(args []string) (ui.Model, error) {
	if len(args) == 0 {
		return ui.New(model.Initial(), app.Config), nil
	}
	sc, err := script.Load(args[0])
	if err != nil {
		return ui.Model{}, err
	}
	t, err := sc.Tree()
	if err != nil {
		return ui.Model{}, fmt.Errorf("%s: %w", args[0], err)
	}
	m := ui.New(t, app.Config)
	if _, err := script.Run(m.Session(), sc); err != nil {
		return ui.Model{}, fmt.Errorf("%s: %w", args[0], err)
	}
	return m, nil
}

func countApplied(results []script.Result) int {
	n := 0
	for _, r := range results {
		if r.Applied {
			n++
		}
	}
	return n
}
