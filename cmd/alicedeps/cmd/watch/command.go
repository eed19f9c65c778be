// Package watch provides the watch command implementation.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/update"
	"github.com/agentstation/alicedeps/internal/cmd/alerts"
	"github.com/agentstation/alicedeps/internal/cmd/application"
	"github.com/agentstation/alicedeps/internal/cmd/globals"
	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
)

// DefaultDebounce is how long the workbook must stay quiet before a run.
const DefaultDebounce = 500 * time.Millisecond

// NewCommand creates the watch command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		flags    *globals.PatchFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:     "watch <workbook> <project-dir>",
		GroupID: "core",
		Short:   "Re-run update whenever the workbook is saved",
		Args:    cobra.ExactArgs(2),
		Long: `Watch runs "alicedeps update" once, then again every time the workbook is
written. Runs never overlap: saves made during a run trigger one more run
after it. A failing run is reported and watching continues.

Stop with Ctrl-C.`,
		Example: `  alicedeps watch deliveries.xlsx ./project
  alicedeps watch deliveries.xlsx ./project --dry --debounce 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			workbook, projectDir := args[0], args[1]
			w := cmd.OutOrStdout()
			run := func(ctx context.Context) {
				if err := update.Run(ctx, app, w, workbook, projectDir, flags.Dry); err != nil {
					report(w, err)
				}
			}
			return Watch(cmd.Context(), app, workbook, debounce, run)
		},
	}

	flags = globals.AddPatchFlags(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Quiet period after a save before running")

	return cmd
}

// Watch calls run once, then again after each burst of writes to path,
// until ctx is done. Calls to run are sequential.
func Watch(ctx context.Context, app application.Application, path string, debounce time.Duration, run func(context.Context)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return errors.WrapIO("resolve", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapResource("create", "watcher", "", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: spreadsheet editors replace the file on save
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.WrapIO("watch", filepath.Dir(target), err)
	}

	logger := app.Logger().With().Str("workbook", target).Logger()
	ctx = logging.WithLogger(ctx, &logger)
	logger.Info().Dur("debounce", debounce).Msg("Watching workbook")

	run(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug().Str("op", event.Op.String()).Msg("Workbook changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case <-fire:
			fire = nil
			run(ctx)
		}
	}
}

func report(w io.Writer, err error) {
	_ = alerts.NewWriterTo(w).WriteAlert(alerts.NewError("Update failed").WithError(err))
}
