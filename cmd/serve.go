package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/container"
	"github.com/pagepulse/pagepulse/internal/manager"
	"github.com/pagepulse/pagepulse/internal/mcpserver"
	"github.com/pagepulse/pagepulse/internal/notify"
	"github.com/pagepulse/pagepulse/internal/scheduler"
)

var serveVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page tools over MCP on stdio",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose logging")
}

func runServe(_ *cobra.Command, _ []string) error {
	// stdout belongs to the MCP transport; all logging goes to stderr.
	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	sched := c.Scheduler()
	sched.SetPublish(publishFunc(c.Manager(), c.Notifier()))

	srv := mcpserver.New(c.Registry(), version)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx) })
	g.Go(func() error { return sched.Start(gctx) })

	slog.Info("serve: running", "page", c.Manager().PageID())

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	slog.Info("serve: shutdown complete")
	return nil
}

// publishFunc builds the scheduler callback that publishes a job's payload
// and reports the outcome to the configured sinks.
func publishFunc(m *manager.Manager, n *notify.Multi) scheduler.PublishFunc {
	return func(ctx context.Context, job scheduler.Job) (string, error) {
		var resp any
		var err error
		if job.Payload.ImageURL != "" {
			caption := job.Payload.Caption
			if caption == "" {
				caption = job.Payload.Message
			}
			resp, err = m.CreatePhotoPost(ctx, job.Payload.ImageURL, caption, job.Payload.Published)
		} else {
			resp, err = m.CreatePost(ctx, manager.CreatePostParams{
				Message:   job.Payload.Message,
				Link:      job.Payload.Link,
				Published: job.Payload.Published,
			})
		}

		postID := ""
		if obj, ok := resp.(map[string]any); ok {
			postID, _ = obj["id"].(string)
			if postID == "" {
				postID, _ = obj["post_id"].(string)
			}
		}

		_ = n.Notify(ctx, notify.Event{
			JobName: job.Name,
			JobID:   job.ID,
			PostID:  postID,
			Err:     err,
		})
		if err != nil {
			return "", err
		}
		return postID, nil
	}
}
