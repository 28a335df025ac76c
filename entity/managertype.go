package entity

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Manager依赖倒置

// entity/lanelet/manager.go的依赖倒置
type ILaneletManager interface {
	Init(pbs []*mapv2.Lane)  // 从城市地图车道数据初始化
	InitWith(lls []ILanelet) // 直接使用已构建的Lanelet初始化

	// 输入Lanelet ID，查找Lanelet，如果不存在则panic
	Get(id int64) ILanelet
	// 输入Lanelet ID，查找Lanelet，如果不存在则返回error
	GetOrError(id int64) (ILanelet, error)
	// 批量查找Lanelet，ids为空时返回全部，不存在的ID记录在failedIDs中
	Find(ids []int64) (lls []ILanelet, failedIDs []int64)

	All() []ILanelet                   // 全部Lanelet（按ID升序）
	Search(bound orb.Bound) []ILanelet // 包围盒与bound相交的Lanelet
}

// entity/primitive/manager.go的依赖倒置
type IPrimitiveManager interface {
	InitFromAois(pbs []*mapv2.Aoi)                          // 将AOI作为多边形图层载入
	InitFromGeoJSON(fc *geojson.FeatureCollection) error    // 载入GeoJSON中的多边形与折线
	Add(polygons []*Polygon3d, lineStrings []*LineString3d) // 直接载入已构建的多边形与折线

	Polygons() []*Polygon3d
	LineStrings() []*LineString3d
	Polygon(id int64) (*Polygon3d, bool)
	LineString(id int64) (*LineString3d, bool)
	SearchPolygons(bound orb.Bound) []*Polygon3d
	SearchLineStrings(bound orb.Bound) []*LineString3d
}
