package migration

import (
	"fmt"
	"path/filepath"

	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAuto          = "auto"

	// DefaultScriptsRoot is relative to the repository root.
	DefaultScriptsRoot = "./internal/infrastructure/migration/scripts"
)

// ScriptsPath returns the absolute directory holding the scripts of a strategy.
func ScriptsPath(root, strategy string) (string, error) {
	dir := "goose"
	if strategy == StrategyGolangMigrate {
		dir = "migrate"
	}
	return filepath.Abs(filepath.Join(root, dir))
}

// NewStrategy picks the migration strategy. An empty name means goose on
// mysql and auto migration on the other drivers.
func NewStrategy(name, driver, scriptsRoot string, log logger.Interface) (Strategy, error) {
	if name == "" {
		name = StrategyAuto
		if driver == "mysql" || driver == "" {
			name = StrategyGoose
		}
	}

	switch name {
	case StrategyAuto:
		return NewGormAutoMigrateStrategy(log), nil
	case StrategyGoose, StrategyGolangMigrate:
		path, err := ScriptsPath(scriptsRoot, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve scripts path: %w", err)
		}
		if name == StrategyGoose {
			return NewGooseStrategy(path, driver, log), nil
		}
		return NewGolangMigrateStrategy(path, driver, log), nil
	}
	return nil, fmt.Errorf("unknown migration strategy %q", name)
}
