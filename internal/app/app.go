// Package app wires configuration, storage, services and the chat
// transports into one runnable bot.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/command"
	"github.com/HKK13/hello-bott/internal/config"
	"github.com/HKK13/hello-bott/internal/db"
	"github.com/HKK13/hello-bott/internal/repository"
	"github.com/HKK13/hello-bott/internal/server"
	"github.com/HKK13/hello-bott/internal/service"
)

// App holds every long-lived collaborator. RTM is nil when the chat
// stream is not configured.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	Workdays   service.WorkdayService
	Users      service.UserService
	Registry   *command.Registry
	Dispatcher *command.Dispatcher

	API *chat.APIClient
	RTM *chat.RTMClient

	db *sql.DB
}

// New opens the database and wires the bot. Close releases it.
func New(cfg config.Config, logger *slog.Logger, clk clock.Clock) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.Real()
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	a := &App{
		Config: cfg,
		Logger: logger,
		Clock:  clk,
		API:    chat.NewAPIClient(cfg.Chat.APIURL, cfg.Chat.Token),
		db:     database,
	}

	var directory service.Directory
	if cfg.Chat.Token != "" {
		directory = a.API
	}

	a.Workdays = service.NewWorkdayService(repository.NewSQLiteWorkdayRepo(database), uow, clk, observer)
	a.Users = service.NewUserService(repository.NewSQLiteUserRepo(database), uow, directory, clk, cfg.Chat.OwnerID, observer)

	a.Registry = command.NewRegistry()
	if err := command.RegisterWorkdayCommands(a.Registry, a.Workdays, clk); err != nil {
		database.Close()
		return nil, fmt.Errorf("registering workday commands: %w", err)
	}
	if err := a.Registry.RegisterCommand("user", command.NewUserModule(a.Users)); err != nil {
		database.Close()
		return nil, fmt.Errorf("registering user commands: %w", err)
	}

	var replier chat.Replier = a.API
	if cfg.ChatEnabled() {
		a.RTM = chat.NewRTMClient(chat.RTMConfig{
			URL:     cfg.Chat.RTMURL,
			Token:   cfg.Chat.Token,
			BotID:   cfg.Chat.BotID,
			BotName: cfg.Chat.BotName,
		}, logger)
		a.RTM.OnAuthenticated(a.authenticated)
		replier = a.RTM
	}

	a.Dispatcher = command.NewDispatcher(a.Registry, a.Users, replier,
		command.WithLogger(logger),
		command.WithRegistrationRequired(cfg.RequireRegistration),
	)
	return a, nil
}

// authenticated adopts the workspace owner reported by the stream unless
// one was configured explicitly.
func (a *App) authenticated(info chat.AuthInfo) {
	if a.Config.Chat.OwnerID == "" && info.OwnerID != "" {
		a.Users.SetOwnerID(info.OwnerID)
	}
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return server.NewRouter(server.Deps{
		Dispatcher: a.Dispatcher,
		Workdays:   a.Workdays,
		Clock:      a.Clock,
		Logger:     a.Logger,
		Token:      a.Config.HTTP.Token,
	})
}

// Serve runs the HTTP server and the chat stream until ctx is cancelled
// or either of them fails. The other one is stopped before Serve returns.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.HTTP.Addr == "" && a.RTM == nil {
		return errors.New("nothing to serve: configure http.addr or chat.rtm_url")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 0

	if a.Config.HTTP.Addr != "" {
		running++
		go func() {
			a.Logger.Info("http server listening", "addr", a.Config.HTTP.Addr)
			if a.Config.HTTP.Token == "" {
				a.Logger.Warn("http.token is empty, /api rejects every request")
			}
			if err := server.Run(ctx, a.Config.HTTP.Addr, a.Handler()); err != nil {
				errCh <- fmt.Errorf("http server: %w", err)
				return
			}
			errCh <- nil
		}()
	}
	if a.RTM != nil {
		running++
		go func() {
			a.Logger.Info("connecting to chat stream", "url", a.Config.Chat.RTMURL)
			if err := a.RTM.Run(ctx, a.Dispatcher); err != nil {
				errCh <- fmt.Errorf("chat stream: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	var errs []error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	return errors.Join(errs...)
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}
