package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/lanelet-query/query"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/config"
)

const sample = `
input:
  uri: mongodb://localhost:27017
  map:
    db: srt
    col: map_beijing
  overlay: data/parking.geojson
query:
  parking_distance_threshold: 8
`

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "srt.map_beijing.pb", c.Input.Map.GetCachePath())
	assert.Equal(t, "srt", c.Input.Map.GetDb())
	assert.Equal(t, "map_beijing", c.Input.Map.GetColl())
	assert.Equal(t, "data/parking.geojson", c.Input.Overlay)
	assert.Equal(t, query.Options{ParkingDistanceThreshold: 8}, c.Query)

	// 未设置的阈值在构造查询器时补齐
	opts := query.New(c.Query).Options()
	assert.Equal(t, 8., opts.ParkingDistanceThreshold)
	assert.Equal(t, query.DefaultOptions().MinLaneletLength, opts.MinLaneletLength)
}

func TestParseRejects(t *testing.T) {
	_, err := config.Parse([]byte("input:\n  map:\n    file: m.pb\n  unknown: 1\n"))
	assert.Error(t, err)
	_, err = config.Parse([]byte("input:\n  uri: mongodb://localhost\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err := config.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "srt", c.Input.Map.DB)

	c, err = config.Load("", base64.StdEncoding.EncodeToString([]byte("input:\n  map:\n    file: m.pb\n    cache: x.pb\n")))
	require.NoError(t, err)
	assert.Equal(t, "m.pb", c.Input.Map.File)
	assert.Equal(t, "x.pb", c.Input.Map.GetCachePath())

	_, err = config.Load("", "")
	assert.Error(t, err)
	_, err = config.Load("", "not base64!")
	assert.Error(t, err)
	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yml"), "")
	assert.Error(t, err)
}
