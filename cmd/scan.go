package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/errmsg"
)

// ScanCmd indexes a media directory into the catalog database.
func ScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [media-dir]",
		Short: "Index audio files into the catalog",
		Long: "Index .mp3 and .flac files under the media directory. Files under\n" +
			"premium/ are marked premium and static/ is skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			dir := cfg.Server.MediaDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no media directory given or configured")
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report, err := store.Scan(ctx, dir)
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpCatalogScan, dir, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			for _, path := range report.Failed {
				fmt.Fprintln(cmd.ErrOrStderr(), "unreadable:", path)
			}
			return nil
		},
	}
}
