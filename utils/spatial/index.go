package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// R-tree要求矩形各维长度为正，退化的包围盒（点、水平/竖直线段）补齐到该长度
const minLength = 1e-6

// indexed 写入R-tree的包装元素
type indexed[T any] struct {
	value T
	order int // 插入顺序，用于稳定输出
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface.
func (e *indexed[T]) Bounds() rtreego.Rect {
	return e.rect
}

// Index 基于R-tree的二维包围盒索引
// 功能：按包围盒相交筛选候选元素，精确的几何判断由调用方完成
// 说明：构建完成后只读，可并发查询
type Index[T any] struct {
	rtree *rtreego.Rtree
	size  int
}

// NewIndex 创建包围盒索引
// 参数：values-元素列表，bound-元素包围盒的计算函数
// 返回：索引实例
func NewIndex[T any](values []T, bound func(T) orb.Bound) *Index[T] {
	idx := &Index[T]{rtree: rtreego.NewTree(2, 25, 50)}
	for i, v := range values {
		b := bound(v)
		// 无几何点的元素无法建立索引
		if b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] {
			log.Warnf("skip element %d without geometry", i)
			continue
		}
		idx.rtree.Insert(&indexed[T]{value: v, order: i, rect: toRect(b)})
		idx.size++
	}
	return idx
}

// Len 索引中的元素数目
func (idx *Index[T]) Len() int {
	return idx.size
}

// Search 查找包围盒与bound相交的元素，按插入顺序返回
func (idx *Index[T]) Search(bound orb.Bound) []T {
	if idx == nil || idx.size == 0 {
		return nil
	}
	// 向外扩展，使仅边界接触的包围盒也被命中
	bound = bound.Pad(minLength)
	hits := idx.rtree.SearchIntersect(toRect(bound))
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].(*indexed[T]).order < hits[j].(*indexed[T]).order
	})
	res := make([]T, len(hits))
	for i, h := range hits {
		res[i] = h.(*indexed[T]).value
	}
	return res
}

func toRect(b orb.Bound) rtreego.Rect {
	lengths := []float64{
		max(b.Max[0]-b.Min[0], minLength),
		max(b.Max[1]-b.Min[1], minLength),
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
	if err != nil {
		log.Panicf("bad bound %v: %v", b, err)
	}
	return rect
}
