package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-visit2pdf/internal/config"
	"github.com/alnah/go-visit2pdf/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain parses args, runs one report and returns the process exit code.
// args[0] is the program name.
func runMain(args []string, env *Environment) int {
	if len(args) > 0 {
		args = args[1:]
	}

	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	if flags.common.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.common.version {
		fmt.Fprintf(env.Stdout, "visit2pdf %s\n", Version)
		return ExitSuccess
	}

	cfg, configName, err := resolveConfig(flags, positional, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, cfg, configName))
		return exitCodeFor(err)
	}
	if flags.common.printConfig {
		out, err := config.Marshal(cfg.Redacted())
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return ExitGeneral
		}
		_, _ = env.Stdout.Write(out)
		return ExitSuccess
	}

	logger, err := logging.New(env.Stderr, logging.Resolve(cfg.Log.Level, flags.common.verbose, flags.common.quiet))
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	setMaxProcs(logger)
	red := cfg.Redacted()
	logger.Debug("config resolved",
		"config", configName,
		"driver", red.Database.Driver,
		"host", red.Database.Host,
		"database", red.Database.Name,
		"password", red.Database.Password,
		"dsn", red.Database.DSN,
		"template", red.Report.Template,
		"output", red.Report.Output,
	)
	for _, name := range unknownEnvVars(env.Environ()) {
		logger.Warn("unknown environment variable (typo?)", "name", name)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	start := env.Now()
	res, err := generate(ctx, cfg, logger, env)
	if err != nil {
		logger.Error("report failed", "visitID", cfg.Report.VisitID, "err", err)
		if hint := hintFor(err, cfg, configName); hint != "" {
			fmt.Fprintln(env.Stderr, hint[1:])
		}
		return exitCodeFor(err)
	}

	logger.Info("report generated",
		"visitID", res.VisitID,
		"output", res.OutputPath,
		"pages", res.Pages,
		"observations", res.Observations,
		"bytes", res.Bytes,
		"duration", env.Now().Sub(start).Round(durationPrecision),
	)
	if res.Location != "" {
		logger.Info("report uploaded", "location", res.Location)
	}
	return ExitSuccess
}

// setMaxProcs aligns GOMAXPROCS with the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(logger *clog.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debugf(format, args...)
	}))
}
