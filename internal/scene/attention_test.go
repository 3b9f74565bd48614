package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeConeAtActor(t *testing.T) {
	cfg := DefaultAttention()
	actor := Vec2{960, 540}

	c := ComputeCone(actor, actor, cfg)

	assert.Equal(t, actor, c.Center)
	assert.Equal(t, 0.0, c.NormalizedDistance)
	assert.InDelta(t, cfg.MinRadius, c.OuterRadius, 1e-12)
	assert.InDelta(t, cfg.MaxSectorWidth, c.SectorWidth, 1e-12)
	assert.InDelta(t, 0, c.FocusAngle, 1e-12)
}

func TestComputeConeBeyondMaxDistance(t *testing.T) {
	cfg := DefaultAttention()
	actor := Vec2{0, 0}

	far := ComputeCone(actor, Vec2{5000, 0}, cfg)
	edge := ComputeCone(actor, Vec2{cfg.MaxDistance, 0}, cfg)

	assert.Equal(t, 1.0, far.NormalizedDistance)
	assert.InDelta(t, cfg.MaxRadius, far.OuterRadius, 1e-9)
	assert.InDelta(t, cfg.MinSectorWidth, far.SectorWidth, 1e-12)
	assert.Equal(t, edge.OuterRadius, far.OuterRadius)
	assert.Equal(t, edge.SectorWidth, far.SectorWidth)
}

func TestComputeConeHalfway(t *testing.T) {
	cfg := DefaultAttention()
	c := ComputeCone(Vec2{100, 100}, Vec2{100, 500}, cfg)

	assert.InDelta(t, 0.5, c.NormalizedDistance, 1e-12)
	assert.InDelta(t, 530, c.OuterRadius, 1e-9)
	assert.InDelta(t, (cfg.MinSectorWidth+cfg.MaxSectorWidth)/2, c.SectorWidth, 1e-12)
	// Pointer straight below the actor in screen space.
	assert.InDelta(t, math.Pi/2, c.FocusAngle, 1e-12)
	assert.InDelta(t, c.FocusAngle-c.SectorWidth/2, c.StartAngle, 1e-12)
	assert.InDelta(t, c.FocusAngle+c.SectorWidth/2, c.EndAngle, 1e-12)
}

func TestComputeConeMonotonic(t *testing.T) {
	cfg := DefaultAttention()
	prev := ComputeCone(Vec2{}, Vec2{}, cfg)
	for d := 50.0; d <= 1000; d += 50 {
		c := ComputeCone(Vec2{}, Vec2{0, -d}, cfg)
		assert.GreaterOrEqual(t, c.OuterRadius, prev.OuterRadius, "distance %v", d)
		assert.LessOrEqual(t, c.SectorWidth, prev.SectorWidth, "distance %v", d)
		assert.GreaterOrEqual(t, c.OuterRadius, cfg.MinRadius)
		assert.LessOrEqual(t, c.OuterRadius, cfg.MaxRadius)
		prev = c
	}
}

func TestComputeConeLeavesAnglesUnwrapped(t *testing.T) {
	cfg := DefaultAttention()
	// Pointer just above the negative X axis: focus near +Pi.
	c := ComputeCone(Vec2{}, Vec2{-100, 1e-6}, cfg)

	assert.Greater(t, c.EndAngle, math.Pi)
	assert.InDelta(t, c.SectorWidth, c.EndAngle-c.StartAngle, 1e-12)
}

func TestConeOutline(t *testing.T) {
	c := Cone{Center: Vec2{10, 10}, OuterRadius: 5, StartAngle: 0, EndAngle: math.Pi / 2}

	pts := c.Outline(100)
	require.Len(t, pts, 100)
	assert.Equal(t, c.Center, pts[0])
	assert.InDelta(t, 15, pts[1].X, 1e-12)
	assert.InDelta(t, 10, pts[1].Y, 1e-12)
	assert.InDelta(t, 10, pts[99].X, 1e-12)
	assert.InDelta(t, 15, pts[99].Y, 1e-12)
	for _, p := range pts[1:] {
		assert.InDelta(t, 5, p.Dist(c.Center), 1e-9)
	}

	assert.Nil(t, c.Outline(2))
}

func TestAttentionConfigValidate(t *testing.T) {
	require.NoError(t, DefaultAttention().Validate())

	bad := AttentionConfig{
		MinRadius:      100,
		MaxRadius:      10,
		MaxDistance:    0,
		MinSectorWidth: 1,
		MaxSectorWidth: 0.5,
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max distance")
	assert.Contains(t, err.Error(), "radius range")
	assert.Contains(t, err.Error(), "sector range")
}
