package query

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// CurrentLanelets 包含点的全部Lanelet（边界上的点视为包含），保持输入顺序
// 返回：found当且仅当结果非空
func (q *Querier) CurrentLanelets(lls []entity.ILanelet, point geometry.Point) ([]entity.ILanelet, bool) {
	res := make([]entity.ILanelet, 0)
	p := geom.ToPoint2d(point)
	for _, l := range lls {
		if geom.PolygonContains(l.Polygon2d(), p) {
			res = append(res, l)
		}
	}
	return res, len(res) > 0
}

// CurrentLaneletsAtPose 包含位姿位置的全部Lanelet，朝向不参与判断
func (q *Querier) CurrentLaneletsAtPose(lls []entity.ILanelet, pose entity.Pose) ([]entity.ILanelet, bool) {
	return q.CurrentLanelets(lls, pose.Position)
}
