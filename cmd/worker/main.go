package main

import (
	"os"

	"github.com/orris-inc/saasportal/internal/interfaces/cli/worker"
)

func main() {
	if err := worker.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
