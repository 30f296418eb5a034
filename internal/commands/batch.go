package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/batch"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

func newBatchCommand(env *environment) *cobra.Command {
	var flags parseFlags
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Parse many statements in parallel into one combined output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			p, err := flags.parser(env, cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = env.cfg.Batch.Workers
			}

			ext := extractor.New(env.log)
			docs := make([]parser.Document, 0, len(args))
			for _, path := range args {
				doc, err := readDocument(cmd.Context(), ext, path, "")
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			report, err := batch.Run(cmd.Context(), p, docs, workers)
			if err != nil {
				return err
			}
			env.log.Info().
				Str("batch_id", report.ID.String()).
				Int("documents", len(docs)).
				Int("failed", len(report.Failed())).
				Msg("batch finished")

			stderr := cmd.ErrOrStderr()
			labels := make([]string, 0, len(report.Issuers))
			for label := range report.Issuers {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				fmt.Fprintf(stderr, "%s\t%s\tbalance=%s\tpurchases=%s\tpayments=%s\n",
					label, report.Issuers[label],
					nullString(report.Balances[label]),
					nullString(report.Purchases[label]),
					nullString(report.PaymentsCredits[label]))
			}
			fmt.Fprintf(stderr, "Total balance: %s\n", report.TotalBalance().StringFixed(2))
			fmt.Fprintf(stderr, "Total purchases: %s\n", report.TotalPurchases().StringFixed(2))

			output := flags.output
			if output == "" {
				output = "-"
			}
			if flags.format == "json" {
				if err := writeReport(cmd, output, report); err != nil {
					return err
				}
			} else {
				var results []*models.StatementResult
				for _, e := range report.Results {
					if e.Result != nil {
						results = append(results, e.Result)
					}
				}
				if err := writeResults(cmd.OutOrStdout(), output, "csv", flags.header, results...); err != nil {
					return err
				}
			}

			if failed := report.Failed(); len(failed) > 0 {
				for _, e := range failed {
					fmt.Fprintf(stderr, "Error processing %s: %v\n", e.Label, e.Err)
				}
				return fmt.Errorf("%d of %d statement(s) failed", len(failed), len(docs))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of statements parsed in parallel (overrides config)")

	return cmd
}

func writeReport(cmd *cobra.Command, path string, report *batch.Report) error {
	out := cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.StringFixed(2)
}
