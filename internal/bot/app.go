package bot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"postbot/core/bootstrap"
	"postbot/core/logger"
	coretelegram "postbot/core/telegram"
	"postbot/core/telegram/router"
	"postbot/internal/notice"
	"postbot/internal/session"
	"postbot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const pruneInterval = time.Hour

// App is the assembled application: infrastructure plus the service.
type App struct {
	cfg *Config
	db  *sqlx.DB
	kv  *storage.SQLStore
	svc *Service
}

// Bootstrap initializes logging, storage, and the service layer.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	kv := storage.NewSQLStore(res.DB)
	sessions := session.NewStore(kv, time.Duration(cfg.Sessions.TTLHours)*time.Hour)
	notices := notice.New(kv, time.Duration(cfg.Notices.TTLDays)*24*time.Hour)

	return &App{
		cfg: cfg,
		db:  res.DB,
		kv:  kv,
		svc: NewService(sessions, notices),
	}, nil
}

// TelegramRunOptions assembles the bot runtime: registry, routes, and
// the shared middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.svc.Register(reg)

	var routes []coretelegram.Route
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})...)
	routes = append(routes, router.TextRoutes(a.svc, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	onLimited := func(c tele.Context) error {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Too fast, give it a second."})
		}
		return nil
	}

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), onLimited),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			go a.pruneLoop(ctx)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// pruneLoop periodically drops expired sessions and notices.
func (a *App) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.kv.Prune(ctx)
			if err != nil {
				logger.KV.Warn("prune failed",
					slog.String("event", "kv.prune"),
					slog.String("err", err.Error()),
				)
				continue
			}
			if n > 0 {
				logger.KV.Info("expired entries pruned",
					slog.String("event", "kv.prune"),
					slog.Int64("dropped", n),
				)
			}
		}
	}
}
