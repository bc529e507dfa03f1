package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/saasportal/internal/infrastructure/database"
	"github.com/orris-inc/saasportal/internal/infrastructure/migration"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/saasportal/internal/shared/constants"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

var (
	env         string
	configPath  string
	strategy    string
	scriptsRoot string
	name        string
	steps       int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "", "Migration strategy (goose, golang-migrate, auto); default depends on the driver")
	cmd.PersistentFlags().StringVar(&scriptsRoot, "scripts", migration.DefaultScriptsRoot, "Root directory of the migration scripts")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// initEnv loads config, opens the database and resolves the strategy.
func initEnv() (migration.Strategy, logger.Interface, error) {
	cfg, log, err := bootstrap.Environment(env, configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s, err := migration.NewStrategy(strategy, cfg.Database.Driver, scriptsRoot, log)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	return s, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	s, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", s.GetName())

	if err := s.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	s, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	switch st := s.(type) {
	case *migration.GooseStrategy:
		err = st.MigrateDown(database.Get(), steps)
	case *migration.GolangMigrateStrategy:
		err = st.MigrateDown(database.Get(), steps)
	default:
		return fmt.Errorf("down migration is not supported with %s", s.GetName())
	}
	if err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("checking migration status", "environment", env)

	out := cmd.OutOrStdout()
	switch st := s.(type) {
	case *migration.GooseStrategy:
		version, err := st.GetVersion(database.Get())
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		fmt.Fprintf(out, "\nMigration Status:\n")
		fmt.Fprintf(out, "  Environment:     %s\n", env)
		fmt.Fprintf(out, "  Current Version: %d\n", version)
		if err := st.Status(database.Get()); err != nil {
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	case *migration.GolangMigrateStrategy:
		version, dirty, err := st.GetVersion(database.Get())
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		fmt.Fprintf(out, "\nMigration Status:\n")
		fmt.Fprintf(out, "  Environment:     %s\n", env)
		fmt.Fprintf(out, "  Current Version: %d\n", version)
		fmt.Fprintf(out, "  Dirty:           %t\n", dirty)
	default:
		fmt.Fprintf(out, "%s has no version table; the schema follows the models\n", s.GetName())
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Environment(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, err := migration.ScriptsPath(scriptsRoot, migration.StrategyGoose)
	if err != nil {
		return err
	}

	log.Infow("creating new migration", "name", name)

	if err := migration.NewGooseStrategy(path, cfg.Database.Driver, log).Create(name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created successfully\n", name)
	return nil
}
