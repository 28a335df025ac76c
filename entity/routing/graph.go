package routing

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
)

// 左/右两侧
const (
	left  = 0
	right = 1
)

// Graph 内存中的路网拓扑
// 功能：记录Lanelet之间的前驱/后继、可变道侧向与不可变道相邻关系
// 说明：构建完成后只读；图中允许存在环，遍历方需自行处理
type Graph struct {
	following map[int64][]entity.ILanelet   // 后继（按添加顺序）
	previous  map[int64][]entity.ILanelet   // 前驱（按添加顺序）
	sides     [2]map[int64]entity.ILanelet // 允许变道的左/右侧Lanelet
	adjacents [2]map[int64]entity.ILanelet // 不允许变道的左/右侧相邻Lanelet
}

// NewGraph 创建空的路网拓扑
func NewGraph() *Graph {
	return &Graph{
		following: make(map[int64][]entity.ILanelet),
		previous:  make(map[int64][]entity.ILanelet),
		sides:     [2]map[int64]entity.ILanelet{make(map[int64]entity.ILanelet), make(map[int64]entity.ILanelet)},
		adjacents: [2]map[int64]entity.ILanelet{make(map[int64]entity.ILanelet), make(map[int64]entity.ILanelet)},
	}
}

// Init 根据城市地图车道的连接关系建立拓扑
// 功能：后继/前驱来自车道连接，最近的左右侧车道在两者均为行车道时视为可变道，否则视为相邻
// 参数：pbs-Lane的protobuf数据列表，laneletManager-已初始化的Lanelet管理器
// 说明：连接到不存在的车道时记录警告并忽略该连接
func (g *Graph) Init(pbs []*mapv2.Lane, laneletManager entity.ILaneletManager) {
	driving := lo.SliceToMap(pbs, func(pb *mapv2.Lane) (int64, bool) {
		return int64(pb.Id), pb.Type == mapv2.LaneType_LANE_TYPE_DRIVING
	})
	get := func(from *mapv2.Lane, id int32) entity.ILanelet {
		l, err := laneletManager.GetOrError(int64(id))
		if err != nil {
			log.Warnf("lane %d: %v", from.Id, err)
			return nil
		}
		return l
	}
	for _, pb := range pbs {
		self := get(pb, pb.Id)
		if self == nil {
			continue
		}
		for _, conn := range pb.Successors {
			if next := get(pb, conn.Id); next != nil {
				g.AddFollowing(self, next)
			}
		}
		for _, conn := range pb.Predecessors {
			if prev := get(pb, conn.Id); prev != nil {
				g.AddFollowing(prev, self)
			}
		}
		for side, ids := range [2][]int32{pb.LeftLaneIds, pb.RightLaneIds} {
			if len(ids) == 0 {
				continue
			}
			neighbor := get(pb, ids[0])
			if neighbor == nil {
				continue
			}
			changeable := driving[self.ID()] && driving[neighbor.ID()]
			switch {
			case side == left && changeable:
				g.SetLeft(self, neighbor)
			case side == left:
				g.SetAdjacentLeft(self, neighbor)
			case changeable:
				g.SetLeft(neighbor, self)
			default:
				g.SetAdjacentLeft(neighbor, self)
			}
		}
	}
	log.Infof("init routing graph with %d lanes", len(pbs))
}

// AddFollowing 添加从from直接驶入to的连接，重复添加无效果
func (g *Graph) AddFollowing(from, to entity.ILanelet) {
	if lo.ContainsBy(g.following[from.ID()], func(l entity.ILanelet) bool { return l.ID() == to.ID() }) {
		return
	}
	g.following[from.ID()] = append(g.following[from.ID()], to)
	g.previous[to.ID()] = append(g.previous[to.ID()], from)
}

// SetLeft 设置l左侧允许变道的Lanelet（同时设置left的右侧为l）
func (g *Graph) SetLeft(l, leftLanelet entity.ILanelet) {
	g.sides[left][l.ID()] = leftLanelet
	g.sides[right][leftLanelet.ID()] = l
}

// SetAdjacentLeft 设置l左侧不允许变道的相邻Lanelet（同时设置反向关系）
func (g *Graph) SetAdjacentLeft(l, leftLanelet entity.ILanelet) {
	g.adjacents[left][l.ID()] = leftLanelet
	g.adjacents[right][leftLanelet.ID()] = l
}

func (g *Graph) Following(l entity.ILanelet) []entity.ILanelet {
	return g.following[l.ID()]
}

func (g *Graph) Previous(l entity.ILanelet) []entity.ILanelet {
	return g.previous[l.ID()]
}

func (g *Graph) Left(l entity.ILanelet) entity.ILanelet {
	return g.sides[left][l.ID()]
}

func (g *Graph) Right(l entity.ILanelet) entity.ILanelet {
	return g.sides[right][l.ID()]
}

func (g *Graph) AdjacentLeft(l entity.ILanelet) entity.ILanelet {
	return g.adjacents[left][l.ID()]
}

func (g *Graph) AdjacentRight(l entity.ILanelet) entity.ILanelet {
	return g.adjacents[right][l.ID()]
}

// Besides 通过变道可到达的所有Lanelet（含自身），从左到右排序
func (g *Graph) Besides(l entity.ILanelet) []entity.ILanelet {
	visited := map[int64]struct{}{l.ID(): {}}
	walk := func(side int) []entity.ILanelet {
		res := make([]entity.ILanelet, 0)
		for cur := g.sides[side][l.ID()]; cur != nil; cur = g.sides[side][cur.ID()] {
			if _, ok := visited[cur.ID()]; ok {
				break
			}
			visited[cur.ID()] = struct{}{}
			res = append(res, cur)
		}
		return res
	}
	lefts := walk(left)
	rights := walk(right)
	res := lo.Reverse(lefts)
	res = append(res, l)
	return append(res, rights...)
}
