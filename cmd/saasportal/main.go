package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/saasportal/internal/interfaces/cli/migrate"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/seed"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/server"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "saasportal",
		Short: "SaaS Portal - tenant provisioning engine",
		Long:  `SaaS Portal sells hosted instances: it tracks provisioning servers and plans, enforces per-partner quotas, and drives instances through their lifecycle.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
