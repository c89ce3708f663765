package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guildops/guildops-api/internal/api"
	"github.com/guildops/guildops-api/internal/config"
	"github.com/guildops/guildops-api/internal/db"
	"github.com/guildops/guildops-api/internal/logger"
)

func Start() error {
	// Editing config.yml while the server runs re-initializes the
	// logger; everything else needs a restart.
	conf, err := config.Load("./cmd/app/config.yml", func(next *config.AppConfig) {
		if initErr := logger.Init(next.API.Environment); initErr != nil {
			zap.L().Warn("could not reinitialize logger", zap.Error(initErr))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
