package query

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/container"
)

// sequenceFrame 车道序列遍历中的待处理节点
type sequenceFrame struct {
	lanelet   entity.ILanelet
	remaining float64           // 尚需累积的长度
	path      []entity.ILanelet // 已确定的部分序列（不含lanelet）
}

// laneletLength 遍历使用的Lanelet长度（3D），不小于MinLaneletLength
func (q *Querier) laneletLength(l entity.ILanelet) float64 {
	return max(l.Length3d(), q.opts.MinLaneletLength)
}

// SucceedingLaneletSequences 从l之后出发、沿后继方向累积长度达到minLength的全部车道序列
// 算法说明：
// 1. 对l的每个后继依次展开，每到一个Lanelet，若无后继或其长度不小于剩余长度，则该分支结束
// 2. 否则对每个后继分别继续展开，剩余长度减去当前Lanelet长度
// 3. 用显式栈代替递归，输出顺序与深度优先遍历一致（分叉处按路网给出的后继顺序）
// 返回：每个序列按行驶方向排列，不包含l本身；l无后继时返回空
func (q *Querier) SucceedingLaneletSequences(
	g entity.IRoutingGraph, l entity.ILanelet, minLength float64,
) [][]entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	res := make([][]entity.ILanelet, 0)
	stack := container.NewStack[sequenceFrame]()
	for _, next := range lo.Reverse(append([]entity.ILanelet(nil), g.Following(l)...)) {
		stack.Push(sequenceFrame{lanelet: next, remaining: minLength})
	}
	for stack.Len() > 0 {
		f := stack.Pop()
		path := make([]entity.ILanelet, len(f.path), len(f.path)+1)
		copy(path, f.path)
		path = append(path, f.lanelet)

		nexts := g.Following(f.lanelet)
		length := q.laneletLength(f.lanelet)
		if len(nexts) == 0 || length >= f.remaining {
			res = append(res, path)
			continue
		}
		for i := len(nexts) - 1; i >= 0; i-- {
			stack.Push(sequenceFrame{lanelet: nexts[i], remaining: f.remaining - length, path: path})
		}
	}
	return res
}

// PrecedingLaneletSequences 在l之前、沿前驱方向累积长度达到minLength的全部车道序列
// 算法说明：
// 1. 与SucceedingLaneletSequences对称，沿前驱方向展开
// 2. 属于excluded的前驱不展开；某个Lanelet的全部前驱都被排除时，该分支在此Lanelet处结束
// 返回：每个序列按行驶方向排列（最远的前驱在前），以l的直接前驱结尾，不包含l本身
func (q *Querier) PrecedingLaneletSequences(
	g entity.IRoutingGraph, l entity.ILanelet, minLength float64, excluded []entity.ILanelet,
) [][]entity.ILanelet {
	if g == nil {
		log.Error("no routing graph received")
		return nil
	}
	excludedSet := lo.SliceToMap(excluded, func(l entity.ILanelet) (int64, struct{}) {
		return l.ID(), struct{}{}
	})
	allowed := func(ls []entity.ILanelet) []entity.ILanelet {
		return lo.Filter(ls, func(l entity.ILanelet, _ int) bool {
			_, ok := excludedSet[l.ID()]
			return !ok
		})
	}

	res := make([][]entity.ILanelet, 0)
	stack := container.NewStack[sequenceFrame]()
	for _, prev := range lo.Reverse(allowed(g.Previous(l))) {
		stack.Push(sequenceFrame{lanelet: prev, remaining: minLength})
	}
	for stack.Len() > 0 {
		f := stack.Pop()
		// path为已确定的后半段，当前Lanelet位于其前
		path := make([]entity.ILanelet, 0, len(f.path)+1)
		path = append(path, f.lanelet)
		path = append(path, f.path...)

		prevs := g.Previous(f.lanelet)
		length := q.laneletLength(f.lanelet)
		if len(prevs) == 0 || length >= f.remaining {
			res = append(res, path)
			continue
		}
		prevs = allowed(prevs)
		if len(prevs) == 0 {
			res = append(res, path)
			continue
		}
		for i := len(prevs) - 1; i >= 0; i-- {
			stack.Push(sequenceFrame{lanelet: prevs[i], remaining: f.remaining - length, path: path})
		}
	}
	return res
}
