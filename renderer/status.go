package renderer

import (
	"github.com/rs/zerolog"

	"car-scene/scene"
)

// StatusChange is published whenever a user-visible toggle changes, and once
// per feature at startup with Initial set.
type StatusChange struct {
	Feature  scene.Feature
	NewState bool
	Initial  bool
}

// Label is the text a status display shows for the new state.
func (c StatusChange) Label() string {
	if c.Feature == scene.FeatureDoors {
		if c.NewState {
			return "OPEN"
		}
		return "CLOSED"
	}
	if c.NewState {
		return "ON"
	}
	return "OFF"
}

type StatusSink interface {
	Notify(change StatusChange)
}

// StatusSinkFunc adapts a function to StatusSink.
type StatusSinkFunc func(StatusChange)

func (f StatusSinkFunc) Notify(change StatusChange) { f(change) }

// MultiSink fans a change out to every sink in order.
type MultiSink []StatusSink

func (m MultiSink) Notify(change StatusChange) {
	for _, s := range m {
		if s != nil {
			s.Notify(change)
		}
	}
}

// LogSink writes status changes to a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(change StatusChange) {
	s.logger.Info().
		Str("feature", change.Feature.String()).
		Str("state", change.Label()).
		Bool("initial", change.Initial).
		Msg("status changed")
}

// AnnounceInitial publishes the startup value of every toggle.
func AnnounceInitial(sink StatusSink, car scene.CarState, rs scene.RenderState) {
	if sink == nil {
		return
	}
	for _, f := range []scene.Feature{
		scene.FeatureDirectionalLight,
		scene.FeaturePointLight,
		scene.FeatureFloorTexture,
	} {
		sink.Notify(StatusChange{Feature: f, NewState: rs.Enabled(f), Initial: true})
	}
	sink.Notify(StatusChange{Feature: scene.FeatureDoors, NewState: car.DoorsOpen, Initial: true})
}
