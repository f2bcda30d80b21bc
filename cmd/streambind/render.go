package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/streambind/internal/config"
	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/server"
	"github.com/vango-dev/streambind/pkg/snapshot"
)

// renderOptions are the flags of the render command.
type renderOptions struct {
	ticks   int
	streams int
	title   string
	asJSON  bool
	archive bool
}

// clock is replaced in tests.
var clock = time.Now

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := renderOptions{streams: -1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard headless and print every frame",
		Long: `Mount the dashboard without a browser, emit --ticks stream updates,
and print every frame the component renders.

Each tick sets the clock stream and every counter stream once, so one tick
produces one frame per stream.

Examples:
  streambind render --ticks=3
  streambind render --ticks=10 --json
  streambind render --archive --config=streambind.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if opts.streams >= 0 {
				cfg.Demo.Streams = opts.streams
			}
			if opts.title != "" {
				cfg.Demo.Title = opts.title
			}

			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var rec *snapshot.Recorder
			if opts.archive {
				store, err := snapshot.Open(cmd.Context(), cfg.Snapshot, logger)
				if err != nil {
					return err
				}
				if store == nil {
					store = snapshot.NewMemoryStore()
				}
				rec = snapshot.NewRecorder(store, logger, opts.ticks*(cfg.Demo.Streams+1)+1)
			}

			frames, err := runRender(cmd.OutOrStdout(), cfg, opts, rec)
			if rec != nil {
				rec.Close()
				written, dropped, failed := rec.Stats()
				logger.Info("archive complete", "written", written, "dropped", dropped, "failed", failed)
			}
			if err != nil {
				return err
			}
			logger.Debug("render complete", "frames", frames)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.ticks, "ticks", "n", 3, "Number of stream updates to emit")
	f.IntVar(&opts.streams, "streams", -1, "Number of counter streams (default from config)")
	f.StringVar(&opts.title, "title", "", "Dashboard title (default from config)")
	f.BoolVar(&opts.asJSON, "json", false, "Print frames as JSON lines")
	f.BoolVar(&opts.archive, "archive", false, "Archive frames to the configured snapshot store")

	return cmd
}

// runRender mounts the dashboard, ticks the feed and writes every frame to w.
func runRender(w io.Writer, cfg *config.Config, opts renderOptions, rec *snapshot.Recorder) (uint64, error) {
	var writeErr error
	sink := func(f host.Frame) {
		if rec != nil {
			rec.Record(f)
		}
		if writeErr != nil {
			return
		}
		writeErr = writeFrame(w, f, opts.asJSON)
	}

	start := clock()
	feed := server.NewFeed(cfg.Demo.Streams, start)
	root := host.NewRoot(host.WithID("render"), host.WithSink(sink))

	if err := root.Mount(server.Demo(bind.WithName("render")), feed.Props(cfg.Demo.Title)); err != nil {
		return 0, err
	}
	tick := cfg.TickInterval()
	for i := 1; i <= opts.ticks; i++ {
		feed.Tick(start.Add(time.Duration(i) * tick))
	}
	if err := root.Unmount(); err != nil {
		return root.Frames(), err
	}
	return root.Frames(), writeErr
}

func writeFrame(w io.Writer, f host.Frame, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(f)
	}
	_, err := fmt.Fprintf(w, "#%d %s %s\n", f.Seq, f.Reason, f.HTML)
	return err
}
