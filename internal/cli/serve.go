package cli

import (
	"github.com/spf13/cobra"

	"github.com/promotoria-nhamunda/controle-prazos/internal/api"
	"github.com/promotoria-nhamunda/controle-prazos/internal/server"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			if err := a.withExtraction(cmd.Context()); err != nil {
				return err
			}

			handlers := api.NewHandlers(a.store, a.extractor, a.assistant, a.backend, a.cache, a.log, a.cfg)
			srv := server.New(a.cfg, handlers, a.log, a.closers...)

			a.log.Info("Starting Controle de Prazos",
				"host", a.cfg.Host,
				"port", a.cfg.Port,
				"office", a.cfg.ProsecutorOffice,
				"extractor", a.extractor.Name(),
			)

			return srv.Run()
		},
	}
}

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the local database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			a.log.Info("Database migrations completed successfully", "path", a.cfg.DatabasePath)
			return nil
		},
	}
}
