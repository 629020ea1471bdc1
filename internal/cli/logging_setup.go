package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/logging"
)

// setupLogging configures logging from the config file, environment and CLI flags, and
// stores the logger and a fresh trace id in the command context.
func setupLogging(cmd *cobra.Command, cfg config.LoggingConfig, debug bool) logging.LogPathResult {
	loggingCfg := logging.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: logging.OutputStderr,
	}
	if cfg.File != "" {
		loggingCfg.Output = logging.OutputFile
		loggingCfg.File = cfg.File
	}

	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.Output = logging.OutputStderr
		loggingCfg.File = ""
	}
	if envLevel := os.Getenv(logging.EnvLogLevel); envLevel != "" && !debug {
		loggingCfg.Level = envLevel
	}

	result := logging.NewLoggerWithPath(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")

	return result
}
