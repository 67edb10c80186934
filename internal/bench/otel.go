package bench

import "go.opentelemetry.io/otel"

const tracerName = "github.com/meschbach/tradeingest/internal/bench"

var tracer = otel.Tracer(tracerName)
