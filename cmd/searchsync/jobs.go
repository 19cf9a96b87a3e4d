package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchsync/internal/usecase/rebuild"
	"github.com/kailas-cloud/searchsync/internal/usecase/repair"
)

const selectorHelp = `TYPE is one of episode, event, person, daily-pick, transcript, or "all".`

func rebuildCmd(envFile *string) *cobra.Command {
	var reindex bool

	cmd := &cobra.Command{
		Use:   "rebuild TYPE",
		Short: "Re-project every indexable record of a content type",
		Long: `Fetch every record of the content type from the CMS and write its projection
into the index. Running it twice without CMS changes yields the same index.

` + selectorHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := rebuild.New(a.catalog, a.cms, a.index, rebuild.Options{
				Concurrency: cfg.Jobs.Concurrency,
				Reindex:     reindex,
			}, logger)
			sums, err := svc.Run(ctx, args[0])
			if err != nil {
				return err
			}
			printRebuild(cmd.OutOrStdout(), sums)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reindex, "reindex", false, "Drop and recreate the FT index before writing")

	return cmd
}

func repairCmd(envFile *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair TYPE",
		Short: "Find and fix drift between the CMS and the index",
		Long: `Compare every record of the content type with the documents in the index.
Missing records are added, orphaned documents removed and records whose document
count changed are rewritten. No drift is a normal outcome.

` + selectorHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := repair.New(a.catalog, a.cms, a.index, repair.Options{
				Concurrency: cfg.Jobs.Concurrency,
				DryRun:      dryRun,
			}, logger)
			reps, err := svc.Run(ctx, args[0])
			if err != nil {
				return err
			}
			printRepair(cmd.OutOrStdout(), reps)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report drift without correcting it")

	return cmd
}

func printRebuild(w io.Writer, sums []rebuild.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tINDEX\tRECORDS\tELIGIBLE\tPUBLISHED\tDOCUMENTS\tFAILED\tDURATION\tERROR")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			s.Type, s.Index, s.Records, s.Eligible, s.Published, s.Documents, s.Failed,
			s.Duration.Round(time.Millisecond), errText(s.Err))
	}
	_ = tw.Flush()
}

func printRepair(w io.Writer, reps []repair.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tINDEX\tRECORDS\tDOCUMENTS\tMISSING\tORPHANED\tSTALE\tADDED\tREMOVED\tUPDATED\tREPAIRED\tFAILED\tERROR")
	for _, r := range reps {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.Type, r.Index, r.Records, r.Documents, r.Missing, r.Orphaned, r.Stale,
			r.Added, r.Removed, r.Updated, r.Repaired(), r.Failed, errText(r.Err))
	}
	_ = tw.Flush()
	if len(reps) > 0 && reps[0].DryRun {
		fmt.Fprintln(w, "dry run: no changes applied")
	}
}

func errText(err error) string {
	if err == nil {
		return "-"
	}
	return err.Error()
}

