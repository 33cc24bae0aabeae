package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/server"
)

// ServeCmd runs the reference backend.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API and media files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if dir, _ := cmd.Flags().GetString("media"); dir != "" {
				cfg.Server.MediaDir = dir
			}
			rescan, _ := cmd.Flags().GetBool("scan")

			log, err := newLogger(os.Stderr, cfg.LogLevel, true)
			if err != nil {
				return err
			}

			dbPath, err := cfg.DBPath()
			if err != nil {
				return err
			}
			store, err := catalog.Open(dbPath)
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpCatalogLoad, dbPath, err))
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if rescan && cfg.Server.MediaDir != "" {
				report, err := store.Scan(ctx, cfg.Server.MediaDir)
				if err != nil {
					return errors.New(errmsg.FormatWith(errmsg.OpCatalogScan, cfg.Server.MediaDir, err))
				}
				log.Info().Stringer("report", report).Msg("catalog scanned")
			}
			if cfg.Server.MediaDir == "" {
				log.Warn().Msg("no media directory configured, /media is disabled")
			}

			handler := server.New(store, server.Options{
				MediaDir:  cfg.Server.MediaDir,
				JWTSecret: cfg.Server.JWTSecret,
				Logger:    log,
			})
			if err := server.ListenAndServe(ctx, cfg.Server.Addr, handler, log); err != nil {
				return errors.New(errmsg.Format(errmsg.OpServe, err))
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	cmd.Flags().String("media", "", "media directory (overrides config)")
	cmd.Flags().Bool("scan", false, "scan the media directory before serving")
	return cmd
}
