package input

import (
	"os"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// countDanglingConnections 统计车道连接、左右侧车道中引用了不存在车道的数目
func countDanglingConnections(m *mapv2.Map) int {
	laneIDs := make(map[int32]struct{}, len(m.Lanes))
	for _, l := range m.Lanes {
		laneIDs[l.Id] = struct{}{}
	}
	missing := func(id int32) int {
		if _, ok := laneIDs[id]; ok {
			return 0
		}
		return 1
	}
	n := 0
	for _, l := range m.Lanes {
		for _, conn := range l.Predecessors {
			n += missing(conn.Id)
		}
		for _, conn := range l.Successors {
			n += missing(conn.Id)
		}
		for _, id := range l.LeftLaneIds {
			n += missing(id)
		}
		for _, id := range l.RightLaneIds {
			n += missing(id)
		}
	}
	return n
}

// preCheckCache 预检查缓存目录
// 功能：验证输入缓存目录的有效性，决定是否启用缓存功能
// 参数：cacheDir-缓存目录路径
// 返回：true表示启用缓存，false表示禁用缓存
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	} else {
		if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
			// 文件夹存在
			log.Infof("enable input cache at %s", cacheDir)
			return true
		} else {
			log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
			return false
		}
	}
}
