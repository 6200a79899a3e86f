package migrate

import (
	"context"
	"fmt"

	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/db"
	"github.com/hillview-school/school-cms/pkg/db/models"
	"github.com/hillview-school/school-cms/pkg/logger"
)

// MaybeRunDev brings the schema up to date when the auto-migrate flag is on.
// SQLite files are created with GORM AutoMigrate since the SQL migrations
// target Postgres; everything else goes through goose with the embedded set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if client.Dialect() != db.DialectSQLite && !cfg.App.IsDev() {
		logg.Warn(ctx, "auto-migrate ignored outside dev for postgres; run cmd/migrate instead")
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if client.Dialect() == db.DialectSQLite {
		logg.Info(ctx, "running GORM AutoMigrate")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, Embedded(), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
