// 车道片段（Lanelet）地图上的空间与拓扑查询
// 包括：属性筛选、最近/所在Lanelet、相邻车道、前后车道序列、停车场/停车位/车道关联
// 所有查询均为只读纯函数，地图与路网拓扑在查询期间不可变，可任意并发
package query

import "github.com/tsinghua-fib-lab/lanelet-query/utils/geom"

// Options 查询阈值
type Options struct {
	// 判定“相连”（接触或重叠）的距离阈值，距离严格小于该值视为相连
	LinkEpsilon float64 `yaml:"link_epsilon"`
	// 最近Lanelet查询中视为等距的误差
	TieEpsilon float64 `yaml:"tie_epsilon"`
	// 停车位与车道的最大距离，同时作为朝向探测线段的延伸倍数
	ParkingDistanceThreshold float64 `yaml:"parking_distance_threshold"`
	// 车道序列生成时单个Lanelet长度的下限，保证遍历在有环路网上终止
	MinLaneletLength float64 `yaml:"min_lanelet_length"`
}

// DefaultOptions 默认查询阈值
func DefaultOptions() Options {
	return Options{
		LinkEpsilon:              geom.Epsilon,
		TieEpsilon:               geom.Epsilon,
		ParkingDistanceThreshold: 5,
		MinLaneletLength:         0.01,
	}
}

// Querier 查询器
// 说明：构造后只读，可被多个goroutine共享
type Querier struct {
	opts Options
}

// New 创建查询器
// 参数：opts-查询阈值，非正数的字段使用默认值
func New(opts Options) *Querier {
	def := DefaultOptions()
	if opts.LinkEpsilon <= 0 {
		opts.LinkEpsilon = def.LinkEpsilon
	}
	if opts.TieEpsilon <= 0 {
		opts.TieEpsilon = def.TieEpsilon
	}
	if opts.ParkingDistanceThreshold <= 0 {
		opts.ParkingDistanceThreshold = def.ParkingDistanceThreshold
	}
	if opts.MinLaneletLength <= 0 {
		opts.MinLaneletLength = def.MinLaneletLength
	}
	return &Querier{opts: opts}
}

// Options 查询器实际使用的阈值
func (q *Querier) Options() Options {
	return q.opts
}
