package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riverfjs/richhtml-go"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

type appEnv struct {
	cfg   *richhtml.RenderConfig
	log   *zap.Logger
	start time.Time
}

type envKey struct{}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{log: zap.NewNop(), cfg: richhtml.DefaultConfig()}
}

func newLogger(debug bool) (*zap.Logger, error) {
	conf := zap.NewDevelopmentConfig()
	conf.EncoderConfig.EncodeCaller = nil
	conf.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	conf.DisableStacktrace = true
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		conf.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return conf.Build()
}

// initializeAppContext prepares configuration and logging after the command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := envFromContext(ctx)

	var err error
	if env.log, err = newLogger(cmd.Bool("debug")); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	richhtml.SetLogger(env.log)

	configFile := cmd.String("config")
	if env.cfg, err = richhtml.LoadConfig(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	env.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)
	env.log.Debug("Program ended", zap.Duration("elapsed", time.Since(env.start)))
	// syncing a console is not supported everywhere, nothing useful to report
	_ = env.log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.log != nil && err != nil {
		env.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "richhtml",
		Usage:           "renders lesson HTML into styled text spans",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log parser decisions"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Parses content and prints text with its spans as JSON",
				OnUsageError: usageErrorHandler,
				Action:       runRender,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "namespace", Aliases: []string{"ns"}, Value: "oppiaserver-resources", Usage: "resource `NAMESPACE` (bucket) of image assets"},
					&cli.StringFlag{Name: "entity-type", Value: "exploration", Usage: "`TYPE` of the entity the content belongs to"},
					&cli.StringFlag{Name: "entity-id", Usage: "`ID` of the entity the content belongs to"},
					&cli.BoolFlag{Name: "center", Usage: "center images horizontally"},
					&cli.BoolFlag{Name: "links", Usage: "make links clickable"},
					&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "treat SOURCE as Markdown"},
					&cli.IntFlag{Name: "width", Value: 0, Usage: "surface `WIDTH` in pixels, images are scaled to fit"},
					&cli.BoolFlag{Name: "load-images", Usage: "download images and report their sizes"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write JSON to `FILE` instead of STDOUT"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to a file with content, "-" or nothing to read STDIN
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
		},
	}
}

func main() {
	env := &appEnv{log: zap.NewNop(), cfg: richhtml.DefaultConfig(), start: time.Now()}
	ctx, stop := signal.NotifyContext(context.WithValue(context.Background(), envKey{}, env), os.Interrupt, syscall.SIGTERM)

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, err := richhtml.DumpConfig(env.cfg)
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	out, closeOut, err := createOutput(fname)
	if err != nil {
		return err
	}
	defer closeOut(&err)

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.log.Info("Outputing configuration", zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
