package telemetry

import (
	"context"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/meschbach/go-junk-bucket/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"
)

var tracer = otel.Tracer("github.com/meschbach/tradeingest/internal/junk/telemetry")

type ApplicationDoneFunc func() error

// Application is the traced lifetime of a single command invocation.
type Application struct {
	RunID uuid.UUID
	Span  trace.Span
}

// TraceApplication starts the exporter configured through OTEL_* environment variables and opens a root span.  The
// returned context is cancelled on SIGINT or SIGTERM.
func TraceApplication(parent context.Context, name string) (context.Context, *Application, ApplicationDoneFunc, error) {
	procCtx, procDone := signal.NotifyContext(parent, unix.SIGTERM, unix.SIGINT)
	cfg := observability.DefaultConfig(name)
	component, err := cfg.Start(procCtx)
	if err != nil {
		procDone()
		return nil, nil, nil, err
	}

	app := &Application{RunID: uuid.New()}
	ctx, span := tracer.Start(procCtx, name, trace.WithAttributes(attribute.String("tradeingest.run", app.RunID.String())))
	app.Span = span
	return ctx, app, func() error {
		span.End()
		defer procDone()
		shutdownCtx, shutdownDone := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownDone()
		return component.ShutdownGracefully(shutdownCtx)
	}, nil
}
