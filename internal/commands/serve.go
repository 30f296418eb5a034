package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/api"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
)

func newServeCommand(env *environment) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = env.cfg.Server.Port
			}
			log := logger.NewJSON(cmd.ErrOrStderr(), env.cfg.Log.Level)

			h := api.NewHandler(api.Options{
				Logger:       log,
				Extractor:    extractor.New(log),
				CacheTTL:     env.cfg.Server.CacheTTL,
				KeepPayments: env.cfg.Parse.KeepPayments,
			})
			app := api.NewApp(h, env.cfg.Server.MaxUploadMB)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info().Str("port", port).Msg("listening")
				errc <- app.Listen(":" + port)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				return app.ShutdownWithTimeout(5 * time.Second)
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config)")

	return cmd
}
