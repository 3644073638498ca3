// Package app assembles the service and its backing stores from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/notify"
	"github.com/Dan9191/credit-service/internal/repository"
	"github.com/Dan9191/credit-service/internal/service"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// App holds the wired service plus the resources it has to release
type App struct {
	Config  *config.Config
	Service *service.Service

	log   *logrus.Logger
	db    *sql.DB
	redis *redis.Client
	cron  *cron.Cron
}

// New builds the stores, rate provider and notifier selected by cfg
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	stores, err := a.initStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	rates := a.initRates(ctx)

	var notifier notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewSender(cfg, log)
		log.Infof("Approval notices go to %s", cfg.NotifyEmail)
	}

	a.Service = service.NewService(stores, rates, notifier, log, cfg)
	if err := a.Service.ReloadRules(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initStores(ctx context.Context) (repository.Stores, error) {
	if a.Config.StoreDriver != config.StorePostgres {
		a.log.Infof("Using csv store in %s", a.Config.DataDir)
		return repository.Stores{
			Clients: repository.NewCSVClientStore(a.Config.ClientsPath()),
			Rules:   repository.NewCSVRuleStore(a.Config.RulesPath()),
			Ledger:  repository.NewCSVLedger(a.Config.LedgerPath()),
		}, nil
	}

	db, err := sql.Open("postgres", a.Config.DBConn)
	if err != nil {
		return repository.Stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db
	if err := db.PingContext(ctx); err != nil {
		return repository.Stores{}, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := repository.NewPostgresRepository(db)
	if err := repo.ApplyMigrations(); err != nil {
		return repository.Stores{}, err
	}
	a.log.Info("Using postgres store")
	return repo.Stores(), nil
}

func (a *App) initRates(ctx context.Context) fx.Provider {
	var rates fx.Provider
	switch a.Config.FXProvider {
	case config.FXProviderCBR:
		rates = fx.NewCBRClient(a.Config.CBRURL, a.Config.FXTimeout, a.log)
	default:
		rates = fx.NewERAPIClient(a.Config.FXURL, a.Config.FXTimeout, a.log)
	}

	if a.Config.RedisAddr == "" {
		return rates
	}
	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	})
	if err := a.redis.Ping(ctx).Err(); err != nil {
		a.log.Warnf("Redis at %s unreachable, quotes will not be cached until it is back: %v", a.Config.RedisAddr, err)
	}
	return fx.NewCachedProvider(rates, a.redis, a.Config.FXCacheTTL, a.log)
}

// StartRuleRefresh reloads the score rule table on the configured cron schedule.
// A failed reload keeps the previous table.
func (a *App) StartRuleRefresh() error {
	if a.Config.RulesRefreshSpec == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(a.Config.RulesRefreshSpec, func() {
		if err := a.Service.ReloadRules(context.Background()); err != nil {
			a.log.Errorf("Score rule refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid RULES_REFRESH_SPEC %q: %w", a.Config.RulesRefreshSpec, err)
	}
	c.Start()
	a.cron = c
	a.log.Infof("Score rules refresh scheduled: %s", a.Config.RulesRefreshSpec)
	return nil
}

// Close stops the scheduler and releases connections
func (a *App) Close() error {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warnf("Failed to close redis client: %v", err)
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
