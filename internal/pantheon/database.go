package pantheon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"al.essio.dev/pkg/shellescape"

	"github.com/rshade/pxpantheon/internal/terminus"
)

// Defaults for database file names.
const (
	DefaultSyncFilename = "remote.db.sql.gz"
	localExportName     = "local.db"
)

// MySQLOptions controls how MySQL opens.
type MySQLOptions struct {
	Env string
	// Launch opens the database in a configured application instead of the mysql client.
	Launch bool
	// AppName picks the application; when unset or unknown the user is asked.
	AppName string
}

// MySQL wakes the environment and opens a MySQL session on it.
func (s *Service) MySQL(ctx context.Context, opts MySQLOptions) error {
	s.logStart(ctx, "mysql")

	var site, env, command string
	return NewWorkflow("mysql").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("environment", func(ctx context.Context) error {
			var err error
			env, err = s.SelectEnvironment(ctx, opts.Env, terminus.EnvDev)
			return err
		}).
		Then("wake", func(ctx context.Context) error {
			return s.wake(ctx, site, env)
		}).
		Then("resolve command", func(ctx context.Context) error {
			var err error
			if opts.Launch {
				command, err = s.launchCommand(ctx, site, env, opts.AppName)
			} else {
				command, err = s.terminus.MySQLCommand(ctx, site, env)
				if err != nil {
					err = asCommandError("terminus connection:info", err)
				}
			}
			return err
		}).
		Then("open", func(ctx context.Context) error {
			res, err := s.shell.Run(ctx, command, false)
			return checkResult("mysql", res, err)
		}).
		Run(ctx)
}

func (s *Service) wake(ctx context.Context, site, env string) error {
	ok, err := s.terminus.Wake(ctx, site, env)
	if err != nil {
		return fmt.Errorf("waking %s: %w", terminus.SiteEnv(site, env), err)
	}
	if !ok {
		return &CommandError{Operation: "terminus env:wake " + terminus.SiteEnv(site, env), ExitCode: 1}
	}
	return nil
}

func (s *Service) launchCommand(ctx context.Context, site, env, appName string) (string, error) {
	if len(s.cfg.DatabaseApps) == 0 {
		return "", missingConfig("no database applications are configured under database_apps")
	}

	creds, err := s.terminus.DatabaseCredentials(ctx, site, env)
	if err != nil {
		return "", asCommandError("terminus connection:info", err)
	}
	if !creds.Valid() {
		return "", fmt.Errorf("%w: the pantheon database connection info for %s is incomplete",
			ErrExternalCommandFailed, terminus.SiteEnv(site, env))
	}

	options, def := appOptions(s.cfg.DatabaseApps)
	if !options.Has(appName) {
		if options.Len() == 1 {
			appName = def
		} else {
			appName, err = s.prompter.Choose(ctx, "Select the database application to launch", options, def)
			if err != nil {
				return "", err
			}
		}
	}
	return appCommand(s.cfg.DatabaseApps[appName], creds), nil
}

// ImportOptions holds a remote import.
type ImportOptions struct {
	// File is the dump to import; when empty the local database is exported first.
	File string
	// Env defaults to dev. test and live are always rejected.
	Env string
}

// Import loads a database dump into a dev or multidev environment.
func (s *Service) Import(ctx context.Context, opts ImportOptions) error {
	s.logStart(ctx, "import")

	env := opts.Env
	if env == "" {
		env = terminus.EnvDev
	}
	file := opts.File
	var site, mysqlCommand string

	err := NewWorkflow("import").
		Validate("environment", func(context.Context) error {
			return checkImportEnv(env)
		}).
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("multidev", func(ctx context.Context) error {
			if env == terminus.EnvDev {
				return nil
			}
			ids, err := s.terminus.MultidevIDs(ctx, site)
			if err != nil {
				return asCommandError("terminus multidev:list", err)
			}
			for _, id := range ids {
				if id == env {
					return nil
				}
			}
			return fmt.Errorf("%w: %q is not a multidev of %s", ErrInvalidEnvironment, env, site)
		}).
		Then("local export", func(ctx context.Context) error {
			if file != "" {
				return nil
			}
			var err error
			file, err = s.localDB.Export(ctx, s.cfg.ProjectTempDir(), localExportName)
			return err
		}).
		Then("check file", func(context.Context) error {
			info, err := os.Stat(file)
			if err != nil || info.IsDir() {
				return invalidInput("the database file path %q is invalid", file)
			}
			return nil
		}).
		Then("resolve mysql command", func(ctx context.Context) error {
			var err error
			mysqlCommand, err = s.terminus.MySQLCommand(ctx, site, env)
			if err != nil {
				return asCommandError("terminus connection:info", err)
			}
			return nil
		}).
		Then("import", func(ctx context.Context) error {
			script, err := importScript(file, mysqlCommand)
			if err != nil {
				return err
			}
			res, err := s.shell.Run(ctx, script, false)
			return checkResult("database import", res, err)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.reporter.Success("The database was successfully imported into the pantheon site.")
	return nil
}

// checkImportEnv rejects environments that must never be overwritten.
func checkImportEnv(env string) error {
	if env == terminus.EnvTest || env == terminus.EnvLive {
		return fmt.Errorf("%w: only the dev environment or a multidev may be imported into, got %q",
			ErrInvalidEnvironment, env)
	}
	if err := validateEnvName(env); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
	}
	return nil
}

// importScript pipes file into mysqlCommand, decompressing gzip dumps.
func importScript(file, mysqlCommand string) (string, error) {
	gz, err := isGzipped(file)
	if err != nil {
		return "", err
	}
	if gz {
		return fmt.Sprintf("gunzip -c %s | %s", shellescape.Quote(file), mysqlCommand), nil
	}
	return fmt.Sprintf("%s < %s", mysqlCommand, shellescape.Quote(file)), nil
}

// ExportOptions holds a remote database download.
type ExportOptions struct {
	Env string
	// Output is the destination file; defaults to <project>/<site>.<env>.sql.gz.
	Output   string
	NoBackup bool
}

// Export creates a fresh backup of the environment's database and downloads it.
func (s *Service) Export(ctx context.Context, opts ExportOptions) (string, error) {
	s.logStart(ctx, "export")

	var site, env, output string
	err := NewWorkflow("export").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("environment", func(ctx context.Context) error {
			var err error
			env, err = s.SelectEnvironment(ctx, opts.Env, terminus.EnvDev)
			return err
		}).
		Validate("output", func(context.Context) error {
			output = opts.Output
			if output == "" {
				output = s.projectPath(terminus.SiteEnv(site, env) + exportSuffix)
			}
			abs, err := filepath.Abs(output)
			if err != nil {
				return invalidInput("output path %q: %v", output, err)
			}
			output = abs
			return nil
		}).
		ThenIf("backup create", func() bool { return !opts.NoBackup }, func(ctx context.Context) error {
			res, err := s.terminus.BackupCreate(ctx, site, env)
			return checkResult("terminus backup:create", res, err)
		}).
		Then("backup get", func(ctx context.Context) error {
			if err := os.MkdirAll(filepath.Dir(output), dirPerm); err != nil {
				return fmt.Errorf("creating %s: %w", filepath.Dir(output), err)
			}
			if err := removeIfExists(output); err != nil {
				return err
			}
			res, err := s.terminus.BackupGet(ctx, site, env, output)
			return checkResult("terminus backup:get", res, err)
		}).
		Run(ctx)
	if err != nil {
		return "", err
	}

	s.reporter.Success(fmt.Sprintf("The %s database was exported to %s.", terminus.SiteEnv(site, env), output))
	return output, nil
}

// SyncOptions holds a remote-to-local database sync.
type SyncOptions struct {
	Env      string
	NoBackup bool
	// Filename is the download name inside the project temp dir.
	Filename string
}

// Sync downloads the environment's database and imports it locally.
func (s *Service) Sync(ctx context.Context, opts SyncOptions) error {
	s.logStart(ctx, "sync")
	s.banner()

	filename := opts.Filename
	if filename == "" {
		filename = DefaultSyncFilename
	}

	var (
		site, env  string
		backupPath string
		download   bool
	)
	syncFailed := func(err error) error {
		return fmt.Errorf("unable to sync the %s database with environment: %w", terminus.SiteEnv(site, env), err)
	}

	err := NewWorkflow("sync").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("environment", func(ctx context.Context) error {
			var err error
			env, err = s.SelectEnvironment(ctx, opts.Env, terminus.EnvDev)
			return err
		}).
		Validate("filename", func(context.Context) error {
			if filepath.Base(filename) != filename {
				return invalidInput("the filename %q must not contain a directory", filename)
			}
			tempDir := s.cfg.ProjectTempDir()
			if err := os.MkdirAll(tempDir, dirPerm); err != nil {
				return fmt.Errorf("creating %s: %w", tempDir, err)
			}
			backupPath = filepath.Join(tempDir, filename)
			return nil
		}).
		Validate("download", func(ctx context.Context) error {
			if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
				download = true
				return nil
			}
			var err error
			download, err = s.prompter.Confirm(ctx, "Download the pantheon database again?", false)
			return err
		}).
		ThenIf("backup create", func() bool { return !opts.NoBackup }, func(ctx context.Context) error {
			res, err := s.terminus.BackupCreate(ctx, site, env)
			if err := checkResult("terminus backup:create", res, err); err != nil {
				return syncFailed(err)
			}
			return nil
		}).
		ThenIf("remove stale backup", func() bool { return download }, func(context.Context) error {
			return removeIfExists(backupPath)
		}).
		ThenIf("backup get", func() bool { return download }, func(ctx context.Context) error {
			res, err := s.terminus.BackupGet(ctx, site, env, backupPath)
			if err := checkResult("terminus backup:get", res, err); err != nil {
				return syncFailed(err)
			}
			return nil
		}).
		Then("local import", func(ctx context.Context) error {
			return s.localDB.Import(ctx, backupPath)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.reporter.Success(fmt.Sprintf("The %s database was synced with the local environment.", terminus.SiteEnv(site, env)))
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
