package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Yash182023/Chess-Mania/internal/config"
	"github.com/Yash182023/Chess-Mania/internal/controller"
	"github.com/Yash182023/Chess-Mania/internal/service"
	"github.com/Yash182023/Chess-Mania/internal/storage"
)

// chessmania serve
func Serve() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`serve starts the HTTP and websocket game server.

			Players are identified by the X-Player-ID header or the
			playerId query parameter. Finished games are archived under
			the data directory; pass an empty --data-dir to keep them
			in memory only.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyLogLevel(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flags.StringSliceVar(&cfg.AllowedOrigins, "origin", cfg.AllowedOrigins, "Allowed browser origins")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the game archive")
	flags.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "Time budget for each side")
	flags.DurationVar(&cfg.MatchmakingInterval, "match-interval", cfg.MatchmakingInterval, "How often to pair queued players")
	flags.IntVar(&cfg.ReadBufferSize, "ws-read-buffer", cfg.ReadBufferSize, "Websocket read buffer size")
	flags.IntVar(&cfg.WriteBufferSize, "ws-write-buffer", cfg.WriteBufferSize, "Websocket write buffer size")

	return cmd
}

// applyLogLevel validates cfg and sets the log level from the flags. serve may
// run without the root command, so it cannot rely on the root's pre-run hook.
func applyLogLevel(cmd *cobra.Command, cfg *config.Config) error {
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if f := cmd.Flag("trace"); f != nil && f.Changed {
		logrus.SetLevel(logrus.TraceLevel)
		return nil
	}
	logrus.SetLevel(cfg.Level())
	return nil
}

func openArchive(dataDir string) (*storage.Storage, error) {
	if dataDir == "" {
		return storage.OpenInMemory()
	}
	dbDir, err := storage.DatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dbDir)
}

func serve(ctx context.Context, cfg *config.Config) error {
	archive, err := openArchive(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := archive.Close(); err != nil {
			logrus.WithError(err).Error("failed to close archive")
		}
	}()

	gameManager := service.NewGameManager(archive, cfg.ClockTime)
	gameService := service.NewGameService(gameManager)
	app := controller.NewApp(cfg, gameService)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gameManager.Run(ctx, cfg.MatchmakingInterval)
		return nil
	})
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"addr":    cfg.Addr,
			"dataDir": cfg.DataDir,
		}).Info("listening")
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
