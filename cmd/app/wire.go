//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Slothdemon22/CampusMinus/internal/bootstrap"
	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/infra/config"
	httpiface "github.com/Slothdemon22/CampusMinus/internal/interface/http"
	"github.com/Slothdemon22/CampusMinus/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideQuestionConfig,
		providePostgresPool,
		provideUserRepository,
		provideQuestionRepository,
		provideEmbedder,
		provideSearchLog,
		provideImageStorage,
		question.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
