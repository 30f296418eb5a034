package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/buildinfo"
	"github.com/insightdelivered/card-statement-parser/internal/config"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
)

// environment is resolved once per invocation, before any subcommand runs.
type environment struct {
	cfg *config.Config
	log zerolog.Logger
}

func (e *environment) load(configPath, logLevel string, stderr io.Writer) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	e.cfg = cfg
	if cfg.Log.JSON {
		e.log = logger.NewJSON(stderr, cfg.Log.Level)
	} else {
		e.log = logger.New(cfg.Log.Level)
	}
	return nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	env := &environment{}
	var configPath, logLevel string

	rootCmd := &cobra.Command{
		Use:   "statement-parser",
		Short: "Credit-card statement parsing and reconciliation",
		Long: `Converts credit-card statements (PDF or extracted text) into normalized
transaction records and a reconciled statement summary.

Supported issuers: capital_one, barclays, bank_of_america, citi, discover,
amex, apple, generic. The issuer is detected from the file name unless
--issuer is given.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.load(configPath, logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newParseCommand(env),
		newBatchCommand(env),
		newDetectCommand(),
		newServeCommand(env),
		newConfigCommand(),
	)

	return rootCmd
}
