package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstat/adapters/excel"
	"farmstat/adapters/stats/hypothesis"
	"farmstat/internal/config"
	"farmstat/internal/testkit"
)

func TestNew_GeneratesFromSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Seed = 77
	cfg.Dataset.Size = 40
	cfg.Log.Level = "error"
	cfg.Analysis.TwoSampleLevels = "strict"

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, int64(77), c.Seed)
	assert.Equal(t, testkit.NewFarmGenerator(testkit.GeneratorConfig{Seed: 77, FarmCount: 40}).Generate(), c.Data)
	assert.Equal(t, hypothesis.LevelsStrict, c.Engine.LevelPolicy())
	assert.NotNil(t, c.Server)
}

func TestNew_RandomSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Seed, int64(0))
	assert.Len(t, c.Data, 200)
}

func TestNew_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farms.csv")
	farms := testkit.GenerateFarms(3)
	require.NoError(t, excel.WriteFile(path, farms))

	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Dataset.File = path

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), c.Seed)
	assert.Equal(t, farms, c.Data)

	cfg.Dataset.File = filepath.Join(t.TempDir(), "missing.csv")
	_, err = New(cfg)
	assert.Error(t, err)
	_, statErr := os.Stat(cfg.Dataset.File)
	assert.True(t, os.IsNotExist(statErr))
}
