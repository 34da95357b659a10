package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/export"
	"github.com/joseph-ayodele/docreview/internal/llm/openai"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

var (
	reviewDoc      docFlags
	reviewFormat   string
	reviewXLSX     string
	reviewProse    bool
	reviewUnmasked bool
	reviewStore    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review A [B]",
	Short: "Review one or two documents",
	Long: `Loads both documents, extracts and compares deal terms, checks the
clauses each document type requires and prints the review result.
With a single file the other side is reported as missing.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReview,
}

func init() {
	reviewDoc.register(reviewCmd, true)
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", formatJSON, "output format: json or yaml")
	reviewCmd.Flags().StringVar(&reviewXLSX, "xlsx", "", "also write an XLSX report to this path (always masked)")
	reviewCmd.Flags().BoolVar(&reviewProse, "prose", false, "add an LLM-written opinion (needs OPENAI_API_KEY)")
	reviewCmd.Flags().BoolVar(&reviewUnmasked, "unmasked", false, "print raw values instead of masked tokens")
	reviewCmd.Flags().BoolVar(&reviewStore, "store", false, "record the masked result in the review store")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := reviewDoc.validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession(reviewProse)
	if err != nil {
		return err
	}

	req := pipeline.Request{A: fileInput(args[0], reviewDoc.typeA, reviewDoc.options())}
	if len(args) == 2 {
		req.B = fileInput(args[1], reviewDoc.typeB, reviewDoc.options())
	}
	res, err := session.Review(ctx, req)
	if err != nil {
		return common.WrapError(err, "review")
	}

	masked := res.Masked()
	if reviewXLSX != "" {
		b, err := export.NewService(logger).ReviewXLSX(masked)
		if err != nil {
			return err
		}
		if err := os.WriteFile(reviewXLSX, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", reviewXLSX, err)
		}
	}
	if reviewStore {
		if err := storeResult(ctx, masked, res.HighCount()); err != nil {
			return err
		}
	}

	out := masked
	if reviewUnmasked {
		out = res
	}
	return writeOutput(cmd.OutOrStdout(), reviewFormat, out)
}

func newSession(withProse bool) (*pipeline.Session, error) {
	var opts []pipeline.Option
	if withProse {
		client, err := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			RatePerSec:  cfg.LLM.Rate,
		}, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithProse(client))
	}
	return pipeline.NewSession(loader.NewFromConfig(cfg, logger), logger, opts...), nil
}

func fileInput(path, docType string, opts loader.Options) *pipeline.Input {
	return &pipeline.Input{
		Path:    path,
		Name:    filepath.Base(path),
		DocType: constants.DocType(docType),
		Options: opts,
	}
}

func storeResult(ctx context.Context, masked *pipeline.Result, high int) error {
	store, err := repository.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := json.Marshal(masked)
	if err != nil {
		return err
	}
	run := repository.NewRun("", "")
	if masked.A != nil {
		run.NameA = masked.A.Name
	}
	if masked.B != nil {
		run.NameB = masked.B.Name
	}
	run.Status = constants.RunStatusDone
	run.HighCount = high
	run.ResultJSON = b
	run.UpdatedAt = time.Now().UTC()
	if err := store.Save(ctx, run); err != nil {
		return err
	}
	logger.Info("store.save.ok", "run_id", run.ID)
	return nil
}
