package frame

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "car-scene/frame"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
