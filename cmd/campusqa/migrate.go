package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
)

func migrateCMD(env *string) *cobra.Command {
	var direction string
	var steps int

	var migrate = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if direction != sqldb.DirectionUp && direction != sqldb.DirectionDown {
				return fmt.Errorf("direction must be %q or %q, got %q", sqldb.DirectionUp, sqldb.DirectionDown, direction)
			}
			if steps < 0 {
				return fmt.Errorf("steps must be >= 0, got %d", steps)
			}

			cfg, logger, err := loadConfig(*env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			d, err := sqldb.Open(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = d.Close() }()

			if err := d.Migrate(direction, steps); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			logger.Info("Migrations applied",
				zap.String("dialect", string(d.Dialect())),
				zap.String("direction", direction),
				zap.Int("steps", steps),
			)
			return nil
		},
	}
	migrate.Flags().StringVar(&direction, "direction", sqldb.DirectionUp, "up or down")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	return migrate
}
