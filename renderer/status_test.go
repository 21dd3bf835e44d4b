package renderer

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"car-scene/scene"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "ON", StatusChange{Feature: scene.FeaturePointLight, NewState: true}.Label())
	assert.Equal(t, "OFF", StatusChange{Feature: scene.FeatureFloorTexture}.Label())
	assert.Equal(t, "OPEN", StatusChange{Feature: scene.FeatureDoors, NewState: true}.Label())
	assert.Equal(t, "CLOSED", StatusChange{Feature: scene.FeatureDoors}.Label())
}

func TestAnnounceInitial(t *testing.T) {
	var got []StatusChange
	sink := StatusSinkFunc(func(c StatusChange) { got = append(got, c) })

	AnnounceInitial(sink, scene.InitialCarState(), scene.RenderState{DirectionalLighting: true, PointLighting: true})

	assert.Equal(t, []StatusChange{
		{Feature: scene.FeatureDirectionalLight, NewState: true, Initial: true},
		{Feature: scene.FeaturePointLight, NewState: true, Initial: true},
		{Feature: scene.FeatureFloorTexture, NewState: false, Initial: true},
		{Feature: scene.FeatureDoors, NewState: false, Initial: true},
	}, got)

	AnnounceInitial(nil, scene.InitialCarState(), scene.RenderState{})
}

func TestMultiSinkAndLogSink(t *testing.T) {
	var buf bytes.Buffer
	count := 0
	sinks := MultiSink{
		NewLogSink(zerolog.New(&buf)),
		nil,
		StatusSinkFunc(func(StatusChange) { count++ }),
	}

	sinks.Notify(StatusChange{Feature: scene.FeatureDoors, NewState: true})

	assert.Equal(t, 1, count)
	assert.Contains(t, buf.String(), `"feature":"doors"`)
	assert.Contains(t, buf.String(), `"state":"OPEN"`)
}
