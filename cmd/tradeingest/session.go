package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/meschbach/tradeingest/internal/config"
	"github.com/meschbach/tradeingest/internal/junk/telemetry"
	"github.com/meschbach/tradeingest/internal/migrator"
	"github.com/meschbach/tradeingest/pkg/store"
	"github.com/meschbach/tradeingest/pkg/store/postgres"
	"go.opentelemetry.io/otel/codes"
)

type sessionOptions struct {
	configFile string
	envPrefix  string
	verbose    bool
	skipReset  bool
}

type connectFunc func(ctx context.Context, url string) (store.Store, error)
type resetFunc func(ctx context.Context, cfg migrator.Config) error

// sessionDeps are the collaborators a session is opened with.
type sessionDeps struct {
	connect connectFunc
	reset   resetFunc
}

func postgresDeps() sessionDeps {
	return sessionDeps{
		connect: func(ctx context.Context, url string) (store.Store, error) {
			return postgres.Connect(ctx, url)
		},
		reset: migrator.ResetExtent,
	}
}

type describer interface {
	Describe() string
}

func loadConnection(opts sessionOptions, out io.Writer) (*config.Connection, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	values, err := config.Load(opts.configFile, out)
	if err != nil {
		return nil, err
	}
	conn, err := values.Connection()
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", opts.configFile, err)
	}
	return conn.LoadEnvWithPrefix(opts.envPrefix)
}

// withSession runs perform inside a traced PostgreSQL session.
func withSession(parent context.Context, name string, opts sessionOptions, out io.Writer, perform func(ctx context.Context, s store.Store) error) (problem error) {
	ctx, app, traceDone, err := telemetry.TraceApplication(parent, name)
	if err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}
	defer func() {
		if problem != nil {
			app.Span.RecordError(problem)
			app.Span.SetStatus(codes.Error, "session failed")
		}
		problem = errors.Join(problem, traceDone())
	}()

	fmt.Fprintf(out, "Run %s\n", app.RunID)
	return runSession(ctx, postgresDeps(), opts, out, perform)
}

// runSession connects, resets the trade extent and hands the session to perform.  The session is closed on every
// return path, including panics unwinding through perform.
func runSession(ctx context.Context, deps sessionDeps, opts sessionOptions, out io.Writer, perform func(ctx context.Context, s store.Store) error) (problem error) {
	conn, err := loadConnection(opts, out)
	if err != nil {
		return err
	}

	session, err := deps.connect(ctx, conn.URL())
	if err != nil {
		return err
	}
	defer func() {
		problem = errors.Join(problem, session.Close(context.WithoutCancel(ctx)))
	}()
	if d, ok := session.(describer); ok {
		fmt.Fprintf(out, "Connected to PostgreSQL: %s\n", d.Describe())
	}

	if !opts.skipReset {
		if err := deps.reset(ctx, migrator.Config{DatabaseURL: conn.URL(), Output: out, Verbose: opts.verbose}); err != nil {
			return err
		}
	}
	return perform(ctx, session)
}
