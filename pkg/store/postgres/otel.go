package postgres

import "go.opentelemetry.io/otel"

const tracerName = "github.com/meschbach/tradeingest/pkg/store/postgres"

var tracer = otel.Tracer(tracerName)
