package query

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/container"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// ClosestLanelet 查找距离位姿最近的Lanelet
// 算法说明：
// 1. 计算位置到各Lanelet多边形的可比较距离（距离平方），与最小值之差不超过TieEpsilon的视为并列
// 2. 只有一个最近者时直接返回
// 3. 多个并列时比较中心线上离位置最近的线段方向与位姿朝向的夹角，取夹角最小者；
// 中心线不足两个点时夹角视为π
// 返回：最近的Lanelet，found当且仅当返回值非nil（输入为空时为false）
func (q *Querier) ClosestLanelet(lls []entity.ILanelet, pose entity.Pose) (closest entity.ILanelet, found bool) {
	if len(lls) == 0 {
		return nil, false
	}
	p := geom.ToPoint2d(pose.Position)

	// 按距离
	candidates := make([]entity.ILanelet, 0)
	minDistance := math.MaxFloat64
	for _, l := range lls {
		distance := geom.PointToPolygonComparableDistance(l.Polygon2d(), p)
		if math.Abs(distance-minDistance) <= q.opts.TieEpsilon {
			candidates = append(candidates, l)
		} else if distance < minDistance {
			candidates = append(candidates[:0], l)
			minDistance = distance
		}
	}
	switch len(candidates) {
	case 0:
		log.Warnf("no lanelet with valid polygon among %d candidates", len(lls))
		return nil, false
	case 1:
		return candidates[0], true
	}

	// 按朝向
	minAngle := math.MaxFloat64
	for _, l := range candidates {
		angleDiff := math.Pi
		if angle, ok := laneletAngle(l, p); ok {
			angleDiff = math.Abs(geom.NormalizeRadian(angle - pose.Yaw))
		}
		if angleDiff < minAngle {
			minAngle = angleDiff
			closest = l
		}
	}
	return closest, closest != nil
}

// ClosestLaneletWithConstraints 在距离与朝向约束下查找最近的Lanelet
// 算法说明：
// 1. 保留多边形距离不超过maxDistance的Lanelet，按距离升序（距离相同时保持输入顺序）
// 2. 依次检查，与位姿朝向夹角超过|maxYawDiff|的跳过；
// 当已选中者的距离小于当前候选距离时停止，保证选中的是满足朝向约束的最近者
// 3. 同等距离内取夹角更小者
// 说明：中心线不足两个点的Lanelet无法计算方向，记录警告后跳过
func (q *Querier) ClosestLaneletWithConstraints(
	lls []entity.ILanelet, pose entity.Pose, maxDistance, maxYawDiff float64,
) (closest entity.ILanelet, found bool) {
	if len(lls) == 0 {
		return nil, false
	}
	p := geom.ToPoint2d(pose.Position)

	pq := container.NewPriorityQueue[entity.ILanelet]()
	for _, l := range lls {
		if distance := geom.PointToPolygonDistance(l.Polygon2d(), p); distance <= maxDistance {
			pq.Push(l, distance)
		}
	}
	pq.Heapify()

	yawThreshold := math.Abs(maxYawDiff)
	minAngle := math.MaxFloat64
	minDistance := math.MaxFloat64
	for pq.Len() > 0 {
		l, distance := pq.HeapPop()
		angle, ok := laneletAngle(l, p)
		if !ok {
			log.Warnf("%v: centerline has no segment, skipped", l)
			continue
		}
		angleDiff := math.Abs(geom.NormalizeRadian(angle - pose.Yaw))
		if angleDiff > yawThreshold {
			continue
		}
		if minDistance < distance {
			break
		}
		if angleDiff < minAngle {
			minAngle = angleDiff
			minDistance = distance
			closest = l
			found = true
		}
	}
	return
}

// laneletAngle 中心线上离p最近的线段的方向
func laneletAngle(l entity.ILanelet, p orb.Point) (float64, bool) {
	from, to, ok := geom.ClosestSegment(p, l.CenterLine())
	if !ok {
		return 0, false
	}
	return geom.Bearing(from, to), true
}
