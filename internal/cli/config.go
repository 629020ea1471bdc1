package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/pxpantheon/internal/config"
)

const configFileName = "config.yaml"

var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// newConfigCmd creates the config command group.
func newConfigCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage pxpantheon configuration",
		Annotations: map[string]string{annotationConfigOptional: "true"},
	}
	cmd.AddCommand(
		newConfigInitCmd(app),
		newConfigSetCmd(app),
		newConfigGetCmd(app),
		newConfigShowCmd(app),
	)
	return cmd
}

func newConfigInitCmd(app *appState) *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

When run inside a project (a directory holding pantheon.yml or composer.json), creates
project-local configuration at $PROJECT/.pxpantheon/config.yaml with a .gitignore that
keeps downloaded databases out of version control. Use --global to initialize the
global configuration even inside a project.`,
		Example: `  # Create project-local configuration
  pxpantheon config init

  # Create global configuration
  pxpantheon config init --global

  # Overwrite an existing file
  pxpantheon config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.projectDir != "" && !global {
				return initProjectConfig(cmd, config.ProjectConfigDir(app.projectDir), force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "initialize the global configuration even inside a project")
	return cmd
}

func initProjectConfig(cmd *cobra.Command, dir string, force bool) error {
	path := filepath.Join(dir, configFileName)
	if err := checkWritable(path, force); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.New()
	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(dir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	if created {
		cmd.Printf("Created .gitignore to keep local data out of version control\n")
	}
	return nil
}

func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.New()
	if err := checkWritable(cfg.ConfigPath(), force); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
	return nil
}

func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errConfigExists
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

func newConfigSetCmd(app *appState) *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Sets a configuration value in the global config file, or in the project " +
			"overlay with --project. Known keys: " + strings.Join(config.Keys(), ", "),
		Example: `  pxpantheon config set pantheon.site acme
  pxpantheon config set pantheon.php_version 8.2 --project`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile(project)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return err
			}
			cmd.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write to the project overlay instead of the global file")
	return cmd
}

// configFile returns the global config file, or the project overlay when project is set.
func (a *appState) configFile(project bool) (string, error) {
	if project {
		if a.projectDir == "" {
			return "", errors.New("not inside a project; run from the project root or pass --project-dir")
		}
		return filepath.Join(config.ProjectConfigDir(a.projectDir), configFileName), nil
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func newConfigGetCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "get <key>",
		Short:       "Print the effective value of a configuration key",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.cfg.Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}
}

func newConfigShowCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration as YAML",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(app.cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
