// Package seed loads servers, plans and portal users from a YAML file.
package seed

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	planUsecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	serverUsecases "github.com/orris-inc/saasportal/internal/application/server/usecases"
	"github.com/orris-inc/saasportal/internal/infrastructure/database"
	"github.com/orris-inc/saasportal/internal/infrastructure/repository"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/saasportal/internal/shared/constants"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

var (
	env        string
	configPath string
	seedFile   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load servers, plans and portal users",
		Long:  `Create the servers and plans listed in a YAML file and mirror its portal users. Existing servers and plans are left untouched.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Seed file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Environment(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := ReadFile(seedFile)
	if err != nil {
		return err
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	res, err := NewSeederForDB(db, log).Run(cmd.Context(), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "servers: %d created, %d skipped\nplans: %d created, %d skipped\nusers: %d upserted\n",
		res.ServersCreated, res.ServersSkipped, res.PlansCreated, res.PlansSkipped, res.UsersUpserted)
	return nil
}

// NewSeederForDB wires a Seeder on the gorm repositories.
func NewSeederForDB(db *gorm.DB, log logger.Interface) *Seeder {
	servers := repository.NewServerRepository(db, log)
	plans := repository.NewPlanRepository(db, log)
	templates := repository.NewDatabaseRepository(db, log)
	clients := repository.NewClientRepository(db, log)
	users := repository.NewPortalUserRepository(db, log)

	return NewSeeder(
		servers, plans, users,
		serverUsecases.NewCreateServerUseCase(servers, log),
		planUsecases.NewCreatePlanUseCase(plans, servers, templates, clients, markdown.NewRenderer(), log),
		log,
	)
}
