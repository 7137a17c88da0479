package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/hearts/internal/auth"
	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/server"
	"github.com/lox/hearts/internal/store"
)

// ServeCmd runs the WebSocket game server
type ServeCmd struct {
	Config string `kong:"default='hearts.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address override, e.g. 0.0.0.0'"`
	Port   int    `kong:"help='Listen port override'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	NoDB   bool   `kong:"name='no-db',help='Disable sqlite persistence'"`
	Bots   string `kong:"default='first-legal',enum='first-legal,avoid-points',help='Bot play strategy'"`
}

func (c *ServeCmd) Run() error {
	config, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		config.Server.Address = c.Addr
	}
	if c.Port != 0 {
		config.Server.Port = c.Port
	}
	if c.Debug {
		config.Server.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger := setupLogger(config.Server.LogLevel)

	st, err := openStore(c, config, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var validator auth.Validator
	if config.Server.AuthURL != "" {
		validator = auth.NewHTTPValidator(config.Server.AuthURL)
		logger.Info("Using remote auth service", "url", config.Server.AuthURL)
	}

	manager := server.NewGameManager(st, game.StrategyByName(c.Bots), logger)
	srv := server.NewServer(config, manager, validator, quartz.NewReal(), logger)

	logger.Info("Starting hearts server",
		"address", config.GetServerAddress(),
		"trickDisplay", config.Game.TrickDisplay(),
		"interBotPause", config.Game.InterBotPause(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		return srv.Stop()
	})

	return g.Wait()
}

// setupLogger configures the console logger
func setupLogger(level string) *log.Logger {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           parsed,
		ReportTimestamp: true,
	})
}

// openStore opens sqlite persistence, or a no-op store when disabled
func openStore(c *ServeCmd, config *server.ServerConfig, logger *log.Logger) (store.Store, error) {
	if c.NoDB || config.Server.DBPath == "" {
		logger.Warn("Persistence disabled, game history will not survive restarts")
		return store.Noop{}, nil
	}

	st, err := store.NewSQLite(config.Server.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Opened game database", "path", config.Server.DBPath)
	return st, nil
}
