package query

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
)

// LaneChangeableNeighbors 通过变道可到达的Lanelet（含自身），从左到右排序
func LaneChangeableNeighbors(g entity.IRoutingGraph, l entity.ILanelet) []entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	return g.Besides(l)
}

// AllNeighborsLeft 左侧全部相邻Lanelet，由近及远
// 说明：每一步优先沿可变道关系，否则沿不可变道的相邻关系，直到两者均不存在；遇到已访问的Lanelet时停止
func AllNeighborsLeft(g entity.IRoutingGraph, l entity.ILanelet) []entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	return walkNeighbors(l, func(cur entity.ILanelet) entity.ILanelet {
		if next := g.Left(cur); next != nil {
			return next
		}
		return g.AdjacentLeft(cur)
	})
}

// AllNeighborsRight 右侧全部相邻Lanelet，由近及远
func AllNeighborsRight(g entity.IRoutingGraph, l entity.ILanelet) []entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	return walkNeighbors(l, func(cur entity.ILanelet) entity.ILanelet {
		if next := g.Right(cur); next != nil {
			return next
		}
		return g.AdjacentRight(cur)
	})
}

func walkNeighbors(l entity.ILanelet, step func(entity.ILanelet) entity.ILanelet) []entity.ILanelet {
	res := make([]entity.ILanelet, 0)
	visited := map[int64]struct{}{l.ID(): {}}
	for cur := step(l); cur != nil; cur = step(cur) {
		if _, ok := visited[cur.ID()]; ok {
			log.Warnf("neighbor cycle at %v starting from %v", cur, l)
			break
		}
		visited[cur.ID()] = struct{}{}
		res = append(res, cur)
	}
	return res
}

// AllNeighbors 同一道路横截面上的全部Lanelet，从左到右排序（含自身）
func AllNeighbors(g entity.IRoutingGraph, l entity.ILanelet) []entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	res := lo.Reverse(AllNeighborsLeft(g, l))
	res = append(res, l)
	return append(res, AllNeighborsRight(g, l)...)
}

// LaneChangeableNeighborsAt 包含或接触点的各Lanelet的可变道邻居的并集（按ID去重，保持首次出现顺序）
func (q *Querier) LaneChangeableNeighborsAt(
	g entity.IRoutingGraph, roadLanelets []entity.ILanelet, point geometry.Point,
) []entity.ILanelet {
	return q.neighborsAt(g, roadLanelets, point, LaneChangeableNeighbors)
}

// AllNeighborsAt 包含或接触点的各Lanelet的全部相邻Lanelet的并集（按ID去重，保持首次出现顺序）
func (q *Querier) AllNeighborsAt(
	g entity.IRoutingGraph, roadLanelets []entity.ILanelet, point geometry.Point,
) []entity.ILanelet {
	return q.neighborsAt(g, roadLanelets, point, AllNeighbors)
}

func (q *Querier) neighborsAt(
	g entity.IRoutingGraph, roadLanelets []entity.ILanelet, point geometry.Point,
	neighbors func(entity.IRoutingGraph, entity.ILanelet) []entity.ILanelet,
) []entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	slices := make([]entity.ILanelet, 0)
	for _, l := range LaneletsWithinRange(roadLanelets, point, q.opts.LinkEpsilon) {
		slices = append(slices, neighbors(g, l)...)
	}
	return UniqueByID(slices)
}
