package lanelet

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/parallel"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/spatial"
)

// LaneletManager Lanelet管理器
// 功能：管理所有Lanelet实体，提供创建、按ID查找与按包围盒检索等功能
type LaneletManager struct {
	data     map[int64]entity.ILanelet
	lanelets []entity.ILanelet // 按ID升序
	index    *spatial.Index[entity.ILanelet]
}

// NewManager 创建Lanelet管理器实例
func NewManager() *LaneletManager {
	return &LaneletManager{
		data:     make(map[int64]entity.ILanelet),
		lanelets: make([]entity.ILanelet, 0),
	}
}

// Init 从城市地图车道数据初始化所有Lanelet
// 功能：并行构建Lanelet几何，建立ID映射与空间索引
// 参数：pbs-Lane的protobuf数据列表
func (m *LaneletManager) Init(pbs []*mapv2.Lane) {
	lls := parallel.GoMap(pbs, func(pb *mapv2.Lane) entity.ILanelet {
		return newFromPb(pb)
	})
	m.InitWith(lls)
}

// InitWith 直接使用已构建的Lanelet初始化
// 参数：lls-Lanelet列表，ID重复时后者覆盖前者并记录警告
func (m *LaneletManager) InitWith(lls []entity.ILanelet) {
	m.data = make(map[int64]entity.ILanelet, len(lls))
	for _, l := range lls {
		if _, ok := m.data[l.ID()]; ok {
			log.Warnf("duplicate lanelet id %d, the latter one is kept", l.ID())
		}
		m.data[l.ID()] = l
	}
	m.lanelets = lo.Values(m.data)
	sort.Slice(m.lanelets, func(i, j int) bool {
		return m.lanelets[i].ID() < m.lanelets[j].ID()
	})
	m.index = spatial.NewIndex(m.lanelets, func(l entity.ILanelet) orb.Bound {
		return l.Bound()
	})
	log.Infof("init %d lanelets", len(m.lanelets))
}

// Get 根据ID获取Lanelet实例，如果不存在则panic
func (m *LaneletManager) Get(id int64) entity.ILanelet {
	if l, ok := m.data[id]; !ok {
		log.Panicf("no id %d in lanelet data", id)
		return nil
	} else {
		return l
	}
}

// GetOrError 根据ID获取Lanelet实例，如果不存在则返回错误
func (m *LaneletManager) GetOrError(id int64) (entity.ILanelet, error) {
	if l, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in lanelet data", id)
	} else {
		return l, nil
	}
}

// Find 批量查找Lanelet，ids为空时返回全部
func (m *LaneletManager) Find(ids []int64) ([]entity.ILanelet, []int64) {
	return utils.Find(m.data, m.lanelets, ids)
}

// All 全部Lanelet（按ID升序）
func (m *LaneletManager) All() []entity.ILanelet {
	return m.lanelets
}

// Search 包围盒与bound相交的Lanelet（按ID升序）
func (m *LaneletManager) Search(bound orb.Bound) []entity.ILanelet {
	return m.index.Search(bound)
}
