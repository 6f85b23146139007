package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/ema-avatar/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	fragmentsDispatched, _ = meter.Int64Counter("avatar.fragments.dispatched",
		metric.WithDescription("Speak calls issued to the avatar, including the terminal call of each reply"))
	interruptsIssued, _ = meter.Int64Counter("avatar.interrupts",
		metric.WithDescription("Think commands issued to interrupt a speaking avatar"))
)
