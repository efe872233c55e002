package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"github.com/Youngregg/gbp-audit-tool/internal/adapters/observability"
	"github.com/Youngregg/gbp-audit-tool/internal/app"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
	"github.com/Youngregg/gbp-audit-tool/internal/shared"
	"github.com/Youngregg/gbp-audit-tool/internal/wiring"
)

const appName = "gbp-audit"

var errHardFailures = errors.New("one or more audits failed")

type options struct {
	workers int
	pretty  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           appName + " [flags] QUERY...",
		Short:         "Audit the completeness of business profiles from a places directory",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			log.Logger = observability.NewCLILogger(cfg.AppEnv)
			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.AuditWorkers
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			deps := wiring.Build(ctx, cfg)
			defer deps.Close()

			err := runAudits(ctx, app.NewAuditService(deps.Fetcher), args, opts, cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 4, "number of queries audited concurrently")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "human readable summary instead of JSON lines")
	return cmd
}

type auditor interface {
	Audit(ctx context.Context, query string) (domain.AuditReport, error)
}

type outcome struct {
	report domain.AuditReport
	err    error
}

// runAudits audits every query with at most opts.workers in flight and prints
// results in argument order.
func runAudits(ctx context.Context, svc auditor, queries []string, opts *options, out io.Writer) error {
	workers := opts.workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([]outcome, len(queries))
	var wg sync.WaitGroup

	for i, q := range queries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = outcome{err: err}
			continue
		}
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			defer sem.Release(1)
			rep, err := svc.Audit(ctx, q)
			results[i] = outcome{report: rep, err: err}
		}(i, q)
	}
	wg.Wait()

	failed := 0
	enc := json.NewEncoder(out)
	for i, r := range results {
		if r.err != nil {
			failed++
			if opts.pretty {
				fmt.Fprintf(out, "%q: error: %v\n", queries[i], r.err)
			} else {
				_ = enc.Encode(map[string]string{"query": queries[i], "error": r.err.Error()})
			}
			continue
		}
		if opts.pretty {
			printSummary(out, r.report)
			continue
		}
		if err := enc.Encode(r.report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errHardFailures, failed, len(queries))
	}
	return nil
}

func printSummary(out io.Writer, rep domain.AuditReport) {
	fmt.Fprintf(out, "%s (%s)\n", rep.Profile.Name, rep.Source)
	if rep.Advisory != "" {
		fmt.Fprintf(out, "  note: %s\n", rep.Advisory)
	}
	fmt.Fprintf(out, "  score: %d/%d\n", rep.Score.Total, app.MaxScore)
	var missing []string
	for _, c := range domain.Criteria {
		if rep.Score.Breakdown[c] == 0 {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "  no points: %s\n", strings.Join(missing, ", "))
	}
}
