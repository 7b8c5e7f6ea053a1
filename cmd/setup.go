package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songnote/internal/shared"
)

// SetupConfig writes the default config file to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify client_id and client_secret\n")
	r.writePlain("2. Set vault.path to your notes folder\n")
	r.writePlain("3. Run 'songnote auth login' to enable playlist features\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("down") {
		r.logger.Info("rolling back database migrations")
		if err := shared.MigrateDown(ctx, db); err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		return r.writePlain("✓ Migrations rolled back for %s\n", r.config.Database.Path)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}
