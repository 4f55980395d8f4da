package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stopguard/stopguard/internal/config"
	"github.com/stopguard/stopguard/internal/guard"
	"github.com/stopguard/stopguard/internal/logging"
	"github.com/stopguard/stopguard/internal/notify"
	"github.com/stopguard/stopguard/internal/policy"
	"github.com/stopguard/stopguard/internal/rules"
	"github.com/stopguard/stopguard/internal/scan"
	"github.com/stopguard/stopguard/internal/stopwords"
)

// app holds everything a command needs to check submissions.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	source   stopwords.Source
	notifier *notify.Notifier
	guard    *guard.Guard
	closers  []func()
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, logOut)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	source, err := a.buildSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.source = source

	notifier, err := a.buildNotifier()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.notifier = notifier

	engine, err := rules.ParseEngine(cfg.Scan.Engine)
	if err != nil {
		a.Close()
		return nil, err
	}
	fields, err := scan.ParseFields(cfg.Scan.Fields)
	if err != nil {
		a.Close()
		return nil, err
	}
	scanner, err := scan.New(scan.Options{Engine: engine, Fields: fields})
	if err != nil {
		a.Close()
		return nil, err
	}

	g, err := guard.New(guard.Config{
		Source:    source,
		BatchSize: cfg.Scan.BatchSize,
		Scanner:   scanner,
		Mode:      policy.Mode(cfg.Scan.Mode),
		Notifier:  notifier,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.guard = g

	if cfg.Logging.DecisionLog != "" {
		decisions, closer, err := logging.OpenDecisionLog(cfg.ResolvePath(cfg.Logging.DecisionLog))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open decision log: %w", err)
		}
		a.closers = append(a.closers, func() { _ = closer() })
		g.SetDecisionLogger(decisions)
	}

	return a, nil
}

func (a *app) buildSource(ctx context.Context) (stopwords.Source, error) {
	cfg := a.cfg.Stopwords
	switch cfg.Source {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			// an unreachable list reads as empty; keep serving
			a.logger.Warn().Err(err).Msg("postgres stopword source unreachable")
		}
		return stopwords.NewPostgresSource(pool, cfg.Postgres.Table, a.logger)
	case config.SourceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			a.logger.Warn().Err(err).Msg("redis stopword source unreachable")
		}
		return stopwords.NewRedisSource(client, cfg.Redis.Key, a.logger), nil
	default:
		file := stopwords.NewFileSource(a.cfg.ResolvePath(cfg.File))
		if cfg.Cache {
			return stopwords.NewCachedSource(file), nil
		}
		return file, nil
	}
}

func (a *app) buildNotifier() (*notify.Notifier, error) {
	cfg := a.cfg.Notify

	var mailer notify.Mailer
	switch cfg.Mailer {
	case config.MailerSMTP:
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.From,
		})
	case config.MailerSendGrid:
		sg, err := notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.From)
		if err != nil {
			return nil, err
		}
		mailer = sg
	default:
		mailer = notify.NewLogMailer(a.logger)
	}

	var posts notify.PostLookup
	if cfg.PostLookupURL != "" {
		lookup, err := notify.NewHTTPPosts(cfg.PostLookupURL, nil)
		if err != nil {
			return nil, err
		}
		posts = lookup
	}

	n := notify.NewNotifier(notify.Config{
		OverrideAddress: cfg.OverrideAddress,
		Resolver:        notify.SiteResolver{Sites: cfg.SiteAddresses, Default: cfg.DefaultAddress},
		Posts:           posts,
		Mailer:          mailer,
	}, a.logger)

	auditLog := a.logger.With().Str("component", "notify_hook").Logger()
	n.Register(notify.HookFunc(func(_ context.Context, fields scan.Fields, term string) {
		auditLog.Debug().Str("term", term).Str("author", fields.Author).Msg("blocked submission")
	}))

	return n, nil
}

// Close waits for pending notifications and releases connections.
func (a *app) Close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
