package input

import (
	"os"
	"path/filepath"
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/config"
)

func TestCountDanglingConnections(t *testing.T) {
	m := &mapv2.Map{Lanes: []*mapv2.Lane{
		{
			Id:           1,
			Successors:   []*mapv2.LaneConnection{{Id: 2}, {Id: 9}},
			LeftLaneIds:  []int32{8},
			RightLaneIds: []int32{2},
		},
		{
			Id:           2,
			Predecessors: []*mapv2.LaneConnection{{Id: 1}},
		},
	}}
	assert.Equal(t, 2, countDanglingConnections(m))
}

func TestPreCheckCache(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, preCheckCache(dir))
	assert.False(t, preCheckCache(""))
	assert.False(t, preCheckCache(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.False(t, preCheckCache(file))
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":1,"geometry":{"type":"LineString","coordinates":[[0,0],[1,0]]},"properties":{"type":"curbstone"}}
	]}`), 0o644))
	fc, err := loadOverlay(path)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)

	_, err = loadOverlay(filepath.Join(dir, "missing.geojson"))
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = loadOverlay(path)
	assert.Error(t, err)
}

func TestInitErrors(t *testing.T) {
	// 未配置数据库地址且不限定缓存
	_, err := Init(config.Config{Input: config.Input{Map: config.InputPath{DB: "srt", Col: "map"}}}, "")
	assert.Error(t, err)

	_, err = Init(config.Config{Input: config.Input{Map: config.InputPath{File: filepath.Join(t.TempDir(), "missing.pb")}}}, "")
	assert.Error(t, err)
}
