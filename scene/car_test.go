package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartsDrawOrder(t *testing.T) {
	parts := Parts(TexturedLayout())
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	assert.Equal(t, []string{
		PartBody, PartCab, PartLeftDoor, PartRightDoor,
		PartWheel1, PartWheel2, PartWheel3, PartWheel4, PartFloor,
	}, names)
}

func TestOnlyFloorIsTexturedAndStatic(t *testing.T) {
	for _, p := range Parts(TexturedLayout()) {
		isFloor := p.Name == PartFloor
		assert.Equal(t, isFloor, p.Textured, p.Name)
		assert.Equal(t, !isFloor, p.FollowsCar, p.Name)
	}
}

func TestLegacyLayout(t *testing.T) {
	parts := Parts(LegacyLayout())
	cab := partByName(t, parts, PartCab)
	assert.InDelta(t, 0.6, cab.Offset.Y, 1e-6)
	assert.InDelta(t, 1.35, cab.Scale.X, 1e-6)

	door := partByName(t, parts, PartRightDoor)
	assert.Equal(t, float32(45), door.SwingAngle)

	floor := partByName(t, parts, PartFloor)
	assert.Equal(t, float32(20), floor.Scale.X)
}

func TestRenderStateToggle(t *testing.T) {
	rs := RenderState{DirectionalLighting: true}

	on, err := rs.Toggle(FeaturePointLight)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, rs.PointLighting)
	assert.True(t, rs.PendingForcedRedraw)

	assert.True(t, rs.ConsumeRedraw())
	assert.False(t, rs.ConsumeRedraw())

	on, err = rs.Toggle(FeatureDirectionalLight)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, rs.Enabled(FeatureDirectionalLight))

	_, err = rs.Toggle(FeatureDoors)
	assert.Error(t, err)
}

func TestInitialCarState(t *testing.T) {
	c := InitialCarState()
	assert.Equal(t, float64(135), c.Heading)
	assert.Zero(t, c.X)
	assert.Zero(t, c.Z)
	assert.False(t, c.DoorsOpen)
	assert.Contains(t, c.String(), "doors=closed")
}
