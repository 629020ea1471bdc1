package pantheon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/execcmd"
)

// LocalDatabase moves data in and out of the local development database.
type LocalDatabase interface {
	// Export dumps the local database into dir and returns the written file.
	Export(ctx context.Context, dir, name string) (string, error)
	// Import loads file into the local database.
	Import(ctx context.Context, file string) error
}

// exportSuffix is appended to the export name to form the dump file name.
const exportSuffix = ".sql.gz"

// ShellDatabase runs configured shell command templates. Templates may reference
// {file}, {dir} and {name}.
type ShellDatabase struct {
	shell *execcmd.Shell
	cfg   config.LocalDatabaseConfig
}

// NewShellDatabase returns a LocalDatabase driven by cfg.
func NewShellDatabase(shell *execcmd.Shell, cfg config.LocalDatabaseConfig) *ShellDatabase {
	return &ShellDatabase{shell: shell, cfg: cfg}
}

// Export implements LocalDatabase.
func (d *ShellDatabase) Export(ctx context.Context, dir, name string) (string, error) {
	if d.cfg.ExportCommand == "" {
		return "", missingConfig("local_database.export_command is not configured")
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	file := filepath.Join(dir, name+exportSuffix)
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("removing stale export %s: %w", file, err)
	}

	script := renderCommand(d.cfg.ExportCommand, map[string]string{"dir": dir, "name": name, "file": file})
	res, err := d.shell.Run(ctx, script, false)
	if err = checkResult("local database export", res, err); err != nil {
		return "", err
	}
	return file, nil
}

// Import implements LocalDatabase. The start command, when configured, runs first.
func (d *ShellDatabase) Import(ctx context.Context, file string) error {
	if d.cfg.ImportCommand == "" {
		return missingConfig("local_database.import_command is not configured")
	}

	var scripts []string
	if d.cfg.StartCommand != "" {
		scripts = append(scripts, d.cfg.StartCommand)
	}
	vars := map[string]string{"file": file, "dir": filepath.Dir(file), "name": filepath.Base(file)}
	scripts = append(scripts, renderCommand(d.cfg.ImportCommand, vars))

	res, err := d.shell.RunAll(ctx, scripts, false)
	return checkResult("local database import", res, err)
}
