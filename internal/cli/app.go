package cli

import (
	"net/http"

	"github.com/vytor/chessactivity/internal/chesscom"
	"github.com/vytor/chessactivity/internal/config"
	"github.com/vytor/chessactivity/internal/db"
	"github.com/vytor/chessactivity/internal/period"
	"github.com/vytor/chessactivity/internal/repository/sqlite"
	"github.com/vytor/chessactivity/internal/services"
)

// DefaultServiceFactory talks to Chess.com and, when useCache is set, keeps
// finished months in the sqlite database at DB_PATH.
func DefaultServiceFactory(cfg config.Config, useCache bool) (services.ActivityService, func() error, error) {
	return NewActivityService(cfg, useCache && cfg.ArchiveCache)
}

// NewActivityService wires the client, cache and resolver from configuration.
func NewActivityService(cfg config.Config, useCache bool) (services.ActivityService, func() error, error) {
	loc := cfg.Location()
	client := chesscom.New(
		chesscom.WithBaseURL(cfg.ChessComBaseURL),
		chesscom.WithUserAgent(cfg.ChessComUserAgent),
		chesscom.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	resolver := period.NewResolver(period.WithLocation(loc), period.WithDefault(cfg.DefaultPeriod))
	svcCfg := services.ActivityConfig{
		MaxConcurrent:    cfg.MaxConcurrentArchive,
		UseCache:         useCache,
		Location:         loc,
		ProfileCacheSize: cfg.ProfileCacheSize,
		ProfileCacheTTL:  cfg.ProfileCacheTTL,
	}

	if !useCache {
		return services.NewActivityService(client, nil, resolver, svcCfg), func() error { return nil }, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	repo := sqlite.NewArchiveRepository(database.DB)
	return services.NewActivityService(client, repo, resolver, svcCfg), database.Close, nil
}
