// Command architect keeps classroom observation records in a local SQLite file
// and serves them over a loopback JSON API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/architect/internal/adapters/export"
	"github.com/okian/architect/internal/adapters/http/api"
	"github.com/okian/architect/internal/adapters/http/swagger"
	"github.com/okian/architect/internal/adapters/repository"
	app "github.com/okian/architect/internal/app"
	"github.com/okian/architect/internal/config"
	"github.com/okian/architect/internal/domain/backup"
	"github.com/okian/architect/internal/seed"
	"github.com/okian/architect/pkg/logger"
	"github.com/okian/architect/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

const filePermission = 0o600

// errUsage marks a bad command line; the message has already been printed.
var errUsage = errors.New("usage")

const usage = `architect keeps classroom observation records.

Usage:
  architect [command] [flags]

Commands:
  serve                          run the local API (default)
  export  -o FILE                write a JSON backup
  import  -f FILE                add every record of a JSON backup
  clear   -confirm DELETE        permanently remove every record
  csv     -o FILE                export observations as CSV
  xlsx    -o FILE                export observations as an Excel workbook
  report                         print the school-wide summary as JSON
  seed    -teachers N -observations M -meetings K -seed S
                                 add deterministic demo data

Configuration is read from the YAML file named by ARCHITECT_CONFIG and from
ARCHITECT_* environment variables.
`

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{ //nolint:gochecknoglobals // command table
	"serve":  runServe,
	"export": runExport,
	"import": runImport,
	"clear":  runClear,
	"csv":    runCSV,
	"xlsx":   runXLSX,
	"report": runReport,
	"seed":   runSeed,
}

// environment is the wired application shared by every command.
type environment struct {
	cfg    *config.Config
	log    logger.Logger
	store  *repository.SQLiteStore
	svc    *app.Service
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := "serve"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	if name == "help" || name == "-h" || name == "--help" {
		_, _ = io.WriteString(stdout, usage)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return 2
	}

	env, err := setup(ctx, stdout, stderr)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to start: "+err.Error()+"\n")
		return 1
	}
	defer env.close(ctx)

	if err := cmd(ctx, env, args); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		env.log.Error(ctx, "command failed", logger.String("command", name), logger.Error(err))
		return 1
	}
	return 0
}

// setup loads configuration, initializes logging and opens the store.
func setup(ctx context.Context, stdout, stderr io.Writer) (*environment, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics.Init(metrics.WithConstLabels(cfg.MetricsLabels), metrics.WithScoreBuckets(cfg.ScoreBuckets))

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := repository.Open(ctx, cfg.DBPath,
		repository.WithLogger(log.Named("store")),
		repository.WithBusyTimeout(time.Duration(cfg.BusyTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}

	svc := app.New(store,
		app.WithLogger(log.Named("service")),
		app.WithBackupVersion(cfg.BackupVersion),
	)
	return &environment{cfg: cfg, log: log, store: store, svc: svc, stdout: stdout, stderr: stderr}, nil
}

func (e *environment) close(ctx context.Context) {
	if err := e.store.Close(); err != nil {
		e.log.Error(ctx, "failed to close store", logger.Error(err))
	}
	_ = logger.Sync()
}

// flags returns a FlagSet that prints its errors to stderr.
func (e *environment) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (e *environment) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(e.stderr, "%s: unexpected arguments %v\n", fs.Name(), fs.Args())
		return errUsage
	}
	return nil
}

func (e *environment) required(fs *flag.FlagSet, flagName, value string) error {
	if value == "" {
		_, _ = fmt.Fprintf(e.stderr, "%s: -%s is required\n", fs.Name(), flagName)
		fs.Usage()
		return errUsage
	}
	return nil
}

func runServe(ctx context.Context, env *environment, args []string) error {
	fs := env.flags("serve")
	addr := fs.String("addr", env.cfg.Addr, "listen address")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	mux := http.NewServeMux()
	api.NewServer(env.svc, api.WithLogger(env.log.Named("api"))).Register(mux)
	swagger.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		env.log.Info(ctx, "starting HTTP server", logger.String("addr", *addr), logger.String("db_path", env.cfg.DBPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	env.log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	env.log.Info(ctx, "server stopped")
	return nil
}

func runExport(ctx context.Context, env *environment, args []string) error {
	fs := env.flags("export")
	out := fs.String("o", "", "output file (default Backup_<date>.json)")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	data, err := env.svc.ExportJSON(ctx)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = backup.FileName(time.Now())
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	env.log.Info(ctx, "backup written", logger.String("path", path))
	return nil
}

func runImport(ctx context.Context, env *environment, args []string) error {
	fs := env.flags("import")
	in := fs.String("f", "", "backup file to import")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	if err := env.required(fs, "f", *in); err != nil {
		return err
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	counts, err := env.svc.Import(ctx, data)
	if err != nil {
		return err
	}
	return printJSON(env.stdout, counts)
}

func runClear(ctx context.Context, env *environment, args []string) error {
	fs := env.flags("clear")
	confirm := fs.String("confirm", "", "type "+app.ClearConfirmation+" to remove every record")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	return env.svc.ClearAll(ctx, *confirm)
}

func runCSV(ctx context.Context, env *environment, args []string) error {
	return runSpreadsheet(ctx, env, args, "csv", func(w io.Writer) error {
		obs, err := env.svc.Observations(ctx)
		if err != nil {
			return err
		}
		ts, err := env.svc.Teachers(ctx)
		if err != nil {
			return err
		}
		return export.WriteObservationsCSV(w, obs, ts)
	})
}

func runXLSX(ctx context.Context, env *environment, args []string) error {
	return runSpreadsheet(ctx, env, args, "xlsx", func(w io.Writer) error {
		obs, err := env.svc.Observations(ctx)
		if err != nil {
			return err
		}
		ts, err := env.svc.Teachers(ctx)
		if err != nil {
			return err
		}
		data, err := export.ObservationsWorkbook(obs, ts)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

func runSpreadsheet(ctx context.Context, env *environment, args []string, ext string, write func(io.Writer) error) error {
	fs := env.flags(ext)
	out := fs.String("o", "", "output file (default Observations_<date>."+ext+")")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = export.FileName(ext, time.Now())
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", ext, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", ext, err)
	}
	env.log.Info(ctx, "observations exported", logger.String("format", ext), logger.String("path", path))
	return nil
}

func runReport(ctx context.Context, env *environment, args []string) error {
	fs := env.flags("report")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	summary, err := env.svc.SchoolWide(ctx)
	if err != nil {
		return err
	}
	return printJSON(env.stdout, summary)
}

func runSeed(ctx context.Context, env *environment, args []string) error {
	cfg := seed.DefaultConfig(time.Now().AddDate(0, -2, 0))
	fs := env.flags("seed")
	fs.IntVar(&cfg.Teachers, "teachers", cfg.Teachers, "number of teachers")
	fs.IntVar(&cfg.Observations, "observations", cfg.Observations, "observations per teacher")
	fs.IntVar(&cfg.Meetings, "meetings", cfg.Meetings, "meetings per teacher")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	stats, err := seed.Run(ctx, env.svc, cfg, env.log.Named("seed"))
	if err != nil {
		return err
	}
	return printJSON(env.stdout, map[string]int{
		"teachers":     stats.Teachers,
		"observations": stats.Observations,
		"meetings":     stats.Meetings,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
