package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/async"
	"github.com/joseph-ayodele/docreview/internal/ingest"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

var (
	watchDoc      docFlags
	watchDebounce time.Duration
	watchProse    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Review file pairs as they appear in a directory",
	Long: `Watches DIR recursively and reviews <name>.a.<ext> against
<name>.b.<ext> whenever both exist or either changes. Results are
recorded, masked, in the review store.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchDoc.register(watchCmd, true)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before a changed file is reviewed")
	watchCmd.Flags().BoolVar(&watchProse, "prose", false, "add an LLM-written opinion (needs OPENAI_API_KEY)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := watchDoc.validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession(watchProse)
	if err != nil {
		return err
	}
	store, err := repository.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	queue := async.NewReviewQueue(session, store, logger,
		async.WithWorkers(cfg.Server.Workers),
		async.WithQueueSize(cfg.Server.QueueSize),
		async.WithProcessTimeout(cfg.Server.JobTimeout),
	)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(shutdownCtx)
	}()

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{args[0]},
		InitialScan: true,
		Debounce:    watchDebounce,
	}, logger)
	if err != nil {
		return err
	}
	go func() {
		for err := range errs {
			logger.Warn("watch.error", "error", err)
		}
	}()

	n := ingest.Feed(ctx, events, queue, ingest.RequestTemplate{
		TypeA:   constants.DocType(watchDoc.typeA),
		TypeB:   constants.DocType(watchDoc.typeB),
		Options: watchDoc.options(),
	}, logger)
	logger.Info("watch.stopped", "submitted", n)
	return nil
}
