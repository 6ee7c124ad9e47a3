package fx

import (
	"dreamhack-badge/internal/api"
	"dreamhack-badge/internal/config"
	"dreamhack-badge/internal/database"
	"dreamhack-badge/internal/logger"
	"dreamhack-badge/internal/repository"
	"dreamhack-badge/internal/server"
	"dreamhack-badge/internal/service"

	"go.uber.org/fx"
)

func ProvideIdentifierCache(repo *repository.UserIDRepository) service.IdentifierCache {
	return repo
}

func ProvideUpstreamClient(client *api.DreamhackClient) service.UpstreamClient {
	return client
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// cache
	fx.Provide(repository.NewUserIDRepository),
	fx.Provide(ProvideIdentifierCache),
	// api clients
	fx.Provide(api.NewDreamhackClient),
	fx.Provide(ProvideUpstreamClient),
	fx.Provide(api.NewGithubClient),
	// svc
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewBadgeServer),
)
