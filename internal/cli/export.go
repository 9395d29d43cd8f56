package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/export"
	"github.com/vanderheijden86/mindmap/pkg/hooks"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		output  string
		formats []string
		preset  string
		theme   string
		title   string
		noHooks bool
	)

	cmd := &cobra.Command{
		Use:   "export [script.yaml]",
		Short: "Export a map to several formats at once",
		Long: `Export the starter map, or the result of a script, to one or more files.
Without --output or --formats an interactive wizard asks for the settings
and remembers them for the next run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := export.Options{Layout: app.Config.LayoutOptions()}
			t := model.Initial()
			projectDir := "."
			if len(args) == 1 {
				projectDir = filepath.Dir(args[0])
				sess, _, err := app.replay(args[0], app.sessionOptions())
				if err != nil {
					return err
				}
				t = sess.Tree()
				base.Drafts = sess.Drafts()
				base.Selected = sess.SelectedID()
			}

			wiz := export.NewWizard(app.Config, cmd.ErrOrStderr())
			wc := wiz.Config()
			if output != "" || len(formats) > 0 {
				if output != "" {
					wc.Path = output
				}
				if len(formats) > 0 {
					wc.Formats = normalizeFormats(formats)
				}
				if preset != "" {
					wc.Preset = preset
				}
				if theme != "" {
					wc.Theme = theme
				}
				wc.Title = title
				if err := wc.Validate(); err != nil {
					return err
				}
			} else {
				var err error
				if wc, err = wiz.Run(); err != nil {
					return err
				}
			}

			hx, err := hooks.RunHooks(projectDir, hooks.ExportContext{
				ExportPath:   wc.Path,
				ExportFormat: strings.Join(wc.Formats, ","),
				NodeCount:    t.Len(),
				Timestamp:    time.Now(),
			}, noHooks)
			if err != nil {
				return err
			}
			defer reportHooks(cmd, hx)
			if hx != nil {
				if err := hx.RunPreExport(); err != nil {
					return err
				}
			}

			targets := wc.Targets()
			results, err := export.SaveAll(cmd.Context(), t, wc.Options(base), targets)
			var hookErrs []error
			for i, r := range results {
				if r.Error != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", r.Path, r.Error)
					continue
				}
				if r.Path == "" {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", r.Path)
				if hx != nil {
					hx.SetExport(r.Path, targets[i].Format)
					hookErrs = append(hookErrs, hx.RunPostExport())
				}
			}
			if err != nil {
				return err
			}
			return errors.Join(hookErrs...)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path without extension")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "Formats to write (svg,png)")
	cmd.Flags().StringVar(&preset, "preset", "", "Spacing preset: compact or roomy")
	cmd.Flags().StringVar(&theme, "theme", "", "Colour theme: light or dark")
	cmd.Flags().StringVar(&title, "title", "", "Title line above the map")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Skip export hooks in .mindmap/hooks.yaml")

	return cmd
}

func normalizeFormats(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
