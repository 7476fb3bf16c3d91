package experiment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperimentBuiltin(t *testing.T) {
	cfg := config.GetPreset("limb", "reach")
	require.NotNil(t, cfg)
	cfg.Duration = 0.1

	e := New(cfg, nil, nil)
	require.NoError(t, e.Setup())
	assert.Len(t, e.Model().Effectors, 1)

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, result.StepsTaken)
	for _, name := range []string{"com_height", "com_drift", "control_effort", "effector_error", "stability"} {
		assert.Contains(t, result.Metrics, name)
	}
	assert.InDelta(t, 0.3, result.Metrics["control_effort"], 1e-12)
	assert.Len(t, result.Samples[0].Bones, 2)
}

func TestExperimentFiles(t *testing.T) {
	dir := t.TempDir()
	descPath := filepath.Join(dir, "rig.yaml")
	scenePath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, rig.Save(descPath, rig.Tred()))
	require.NoError(t, scene.Save(scenePath, scene.Tred()))

	cfg := config.DefaultConfig()
	cfg.Descriptor = descPath
	cfg.Scene = scenePath
	cfg.Duration = 0.05

	reg := NewRegistry()
	e := New(cfg, reg, nil)
	require.NoError(t, e.Setup())
	assert.Equal(t, 9, e.Model().Tree.Len())
	assert.Len(t, e.Model().Effectors, 4)

	d1, _, err := reg.LoadFiles(descPath, scenePath)
	require.NoError(t, err)
	d1.Mass = 1
	d2, _, err := reg.LoadFiles(descPath, scenePath)
	require.NoError(t, err)
	assert.Equal(t, 500.0, d2.Mass, "cached descriptor must be cloned per request")
}

func TestExperimentErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "biped"
	assert.Error(t, New(cfg, nil, nil).Setup())

	cfg = config.DefaultConfig()
	cfg.Control = "pid"
	assert.Error(t, New(cfg, nil, nil).Setup())

	_, err := New(config.DefaultConfig(), nil, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRegistryListModels(t *testing.T) {
	assert.Equal(t, []string{"limb", "tred"}, NewRegistry().ListModels())
}
