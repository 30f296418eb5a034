package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

// parseFlags are shared by parse and batch.
type parseFlags struct {
	label        string
	issuer       string
	output       string
	format       string
	keepPayments bool
	debug        bool
	header       bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.issuer, "issuer", "", "issuer layout to use (detected from the file name if omitted)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `output path, "-" for stdout (defaults to the input name with a .csv or .json extension)`)
	cmd.Flags().StringVar(&f.format, "format", "csv", "output format: csv or json")
	cmd.Flags().BoolVar(&f.keepPayments, "keep-payments", false, "keep payments to the card as credit records (overrides config)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "include per-line debug results in JSON output")
	cmd.Flags().BoolVar(&f.header, "header", true, "include summary metadata rows in CSV output")
}

func (f *parseFlags) validate() error {
	switch f.format {
	case "csv", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q: use csv or json", f.format)
	}
}

func (f *parseFlags) parser(env *environment, cmd *cobra.Command) (*parser.Parser, error) {
	keep := env.cfg.Parse.KeepPayments
	if cmd.Flags().Changed("keep-payments") {
		keep = f.keepPayments
	}
	opts := []parser.Option{
		parser.WithLogger(env.log),
		parser.WithKeepRemittances(keep),
		parser.WithDebug(f.debug),
	}
	if f.issuer != "" {
		issuer, err := parser.ParseIssuer(f.issuer)
		if err != nil {
			return nil, err
		}
		opts = append(opts, parser.WithIssuer(issuer))
	}
	return parser.New(opts...), nil
}

func newParseCommand(env *environment) *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse statements (.pdf or .txt) into CSV or JSON",
		Example: `  # Detect the issuer from the file name and write citi_Mar2024.csv
  statement-parser parse citi_Mar2024.pdf

  # Force a layout and print JSON to stdout
  statement-parser parse --issuer amex --format json -o - statement.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if flags.label != "" && len(args) > 1 {
				return fmt.Errorf("--label can only be used with a single file")
			}
			p, err := flags.parser(env, cmd)
			if err != nil {
				return err
			}
			ext := extractor.New(env.log)

			var results []*models.StatementResult
			for _, path := range args {
				doc, err := readDocument(cmd.Context(), ext, path, flags.label)
				if err != nil {
					return err
				}
				res, err := p.Parse(doc)
				if err != nil {
					return fmt.Errorf("parsing %s: %w", path, err)
				}
				printSummary(cmd.ErrOrStderr(), res)
				results = append(results, res)
			}

			if flags.output != "" {
				return writeResults(cmd.OutOrStdout(), flags.output, flags.format, flags.header, results...)
			}
			for i, res := range results {
				out := strings.TrimSuffix(args[i], filepath.Ext(args[i])) + "." + flags.format
				if err := writeResults(cmd.OutOrStdout(), out, flags.format, flags.header, res); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "  Output: %s\n", out)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.label, "label", "", "label used for issuer detection (defaults to the file name)")

	return cmd
}

// readDocument extracts a file's text. The label defaults to the file name.
func readDocument(ctx context.Context, ext *extractor.Extractor, path, label string) (parser.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pages, err := ext.Pages(ctx, path)
	if err != nil {
		return parser.Document{}, fmt.Errorf("extracting %s: %w", path, err)
	}
	if label == "" {
		label = filepath.Base(path)
	}
	return parser.Document{Label: label, Text: strings.Join(pages, "\n")}, nil
}

// writeResults writes to path, or to stdout when path is "-".
func writeResults(stdout io.Writer, path, format string, header bool, results ...*models.StatementResult) error {
	out := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)
	}
	return (&writer.CSVWriter{IncludeHeader: header}).Write(out, results...)
}

func printSummary(w io.Writer, res *models.StatementResult) {
	fmt.Fprintf(w, "Processing: %s\n", res.Label)
	fmt.Fprintf(w, "  Issuer: %s\n", res.Issuer)
	fmt.Fprintf(w, "  Found %d transaction(s)\n", len(res.Transactions))
	if len(res.Transactions) == 0 {
		fmt.Fprintln(w, "  Warning: No transactions found. Try --issuer if detection picked the wrong layout.")
	}
	printFigure(w, "Statement balance", res.Summary.StatementBalance.Valid, res.Summary.StatementBalance.Decimal.StringFixed(2), res.Sources.StatementBalance)
	printFigure(w, "Purchases", res.Summary.Purchases.Valid, res.Summary.Purchases.Decimal.StringFixed(2), res.Sources.Purchases)
	printFigure(w, "Payments/credits", res.Summary.PaymentsCredits.Valid, res.Summary.PaymentsCredits.Decimal.StringFixed(2), res.Sources.PaymentsCredits)
}

func printFigure(w io.Writer, name string, valid bool, value string, src models.Provenance) {
	if !valid {
		fmt.Fprintf(w, "  %s: unknown\n", name)
		return
	}
	fmt.Fprintf(w, "  %s: %s (%s)\n", name, value, src)
}
