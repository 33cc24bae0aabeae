package cmd

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/api"
	"github.com/llehouerou/wavecast/internal/app"
	"github.com/llehouerou/wavecast/internal/auth"
	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/mpris"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
)

// PlayCmd starts the terminal client.
func PlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [playlist-id]",
		Short: "Browse the catalog and play music in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			if token, _ := cmd.Flags().GetString("token"); token != "" {
				cfg.Token = token
			}
			var playlistID string
			if len(args) > 0 {
				playlistID = args[0]
			}
			return runPlay(cfg, playlistID)
		},
	}
	cmd.Flags().String("token", "", "access token (overrides config)")
	return cmd
}

// streamTimeout bounds the download of one source.
const streamTimeout = 2 * time.Minute

func runPlay(cfg *config.Config, playlistID string) error {
	logFile, log, err := openClientLog(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	session := auth.NewSession()
	client := api.NewClient(cfg.APIURL, cfg.Token)

	volume := cfg.InitialVolume()
	sink := player.NewStreamSink(api.NewHTTPClient(cfg.Token, streamTimeout))
	engine := playback.New(sink, session, client, playback.Options{
		MediaBase:  cfg.MediaURL,
		UpsellPath: cfg.UpsellPath,
		Volume:     &volume,
		Logger:     &log,
	})
	defer sink.Close()
	defer engine.Close()

	// Resolution runs after the engine exists so early plays see a
	// pending account.
	go func() {
		if err := session.Resolve(cfg.Token); err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSignIn, err))
		}
	}()

	adapter, err := mpris.New(engine, log)
	if err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	model := app.New(app.Options{
		Service:    engine,
		Catalog:    client,
		Account:    session,
		PlaylistID: playlistID,
		Logger:     log,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// openClientLog opens the client log file. The terminal belongs to the UI.
func openClientLog(level string) (*os.File, zerolog.Logger, error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := newLogger(f, level, false)
	if err != nil {
		f.Close()
		return nil, zerolog.Nop(), err
	}
	return f, log, nil
}
