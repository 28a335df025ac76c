package primitive

import (
	"fmt"
	"sort"
	"strconv"

	"git.fiblab.net/general/common/v2/geometry"
	geov2 "git.fiblab.net/sim/protos/v2/go/city/geo/v2"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/spatial"
)

// TypeAoi 由城市地图AOI转换的多边形类型
const TypeAoi = "aoi"

// PrimitiveManager 多边形与折线图层管理器
// 功能：保存停车场、停车位、路缘石等非Lanelet地图元素，提供按ID查找与按包围盒检索
// 说明：可多次载入（AOI、GeoJSON叠加层），每次载入后重建空间索引
type PrimitiveManager struct {
	polygons    map[int64]*entity.Polygon3d
	lineStrings map[int64]*entity.LineString3d

	polygonList    []*entity.Polygon3d    // 按ID升序
	lineStringList []*entity.LineString3d // 按ID升序

	polygonIndex    *spatial.Index[*entity.Polygon3d]
	lineStringIndex *spatial.Index[*entity.LineString3d]
}

// NewManager 创建图层管理器实例
func NewManager() *PrimitiveManager {
	m := &PrimitiveManager{
		polygons:    make(map[int64]*entity.Polygon3d),
		lineStrings: make(map[int64]*entity.LineString3d),
	}
	m.rebuild()
	return m
}

// InitFromAois 将AOI作为多边形图层载入
// 功能：AOI边界转换为type=aoi的多边形，面积记录在area属性中
// 参数：pbs-AOI的protobuf数据列表
func (m *PrimitiveManager) InitFromAois(pbs []*mapv2.Aoi) {
	for _, pb := range pbs {
		points := lo.Map(pb.Positions, func(p *geov2.XYPosition, _ int) geometry.Point {
			return geometry.NewPointFromPb(p)
		})
		// AOI边界首尾点相同
		if len(points) > 1 && points[0] == points[len(points)-1] {
			points = points[:len(points)-1]
		}
		attrs := entity.Attributes{entity.AttrType: TypeAoi}
		if pb.Area != nil {
			attrs["area"] = strconv.FormatFloat(*pb.Area, 'f', -1, 64)
		}
		m.addPolygon(&entity.Polygon3d{ID: int64(pb.Id), Points: points, Attrs: attrs})
	}
	m.rebuild()
	log.Infof("load %d aois as polygons", len(pbs))
}

// InitFromGeoJSON 载入GeoJSON中的多边形与折线
// 功能：Polygon取外环作为多边形，LineString作为折线，properties转为属性（值统一转为字符串）
// 参数：fc-GeoJSON要素集合
// 返回：要素缺少ID时返回错误，此时不载入任何要素
// 说明：ID取要素的id字段，缺省时取properties中的id；其余几何类型记录警告后跳过
func (m *PrimitiveManager) InitFromGeoJSON(fc *geojson.FeatureCollection) error {
	polygons := make([]*entity.Polygon3d, 0)
	lineStrings := make([]*entity.LineString3d, 0)
	for i, f := range fc.Features {
		id, err := featureID(f)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
		attrs := make(entity.Attributes, len(f.Properties))
		for k, v := range f.Properties {
			if k == "id" {
				continue
			}
			attrs[k] = fmt.Sprint(v)
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if len(g) == 0 {
				log.Warnf("skip feature %d with empty polygon", id)
				continue
			}
			ring := g[0]
			if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
				ring = ring[:len(ring)-1]
			}
			polygons = append(polygons, &entity.Polygon3d{ID: id, Points: toPoints(ring), Attrs: attrs})
		case orb.LineString:
			lineStrings = append(lineStrings, &entity.LineString3d{ID: id, Points: toPoints(g), Attrs: attrs})
		default:
			log.Warnf("skip feature %d with unsupported geometry %T", id, f.Geometry)
		}
	}
	m.Add(polygons, lineStrings)
	log.Infof("load %d polygons and %d linestrings from geojson", len(polygons), len(lineStrings))
	return nil
}

// Add 载入多边形与折线，ID重复时后者覆盖前者
func (m *PrimitiveManager) Add(polygons []*entity.Polygon3d, lineStrings []*entity.LineString3d) {
	for _, p := range polygons {
		m.addPolygon(p)
	}
	for _, l := range lineStrings {
		m.addLineString(l)
	}
	m.rebuild()
}

func featureID(f *geojson.Feature) (int64, error) {
	raw := f.ID
	if raw == nil {
		raw = f.Properties["id"]
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("no id")
	default:
		return 0, fmt.Errorf("bad id %v", v)
	}
}

func toPoints(pts []orb.Point) []geometry.Point {
	res := make([]geometry.Point, len(pts))
	for i, p := range pts {
		res[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return res
}

func (m *PrimitiveManager) addPolygon(p *entity.Polygon3d) {
	if _, ok := m.polygons[p.ID]; ok {
		log.Warnf("duplicate polygon id %d, the latter one is kept", p.ID)
	}
	m.polygons[p.ID] = p
}

func (m *PrimitiveManager) addLineString(l *entity.LineString3d) {
	if _, ok := m.lineStrings[l.ID]; ok {
		log.Warnf("duplicate linestring id %d, the latter one is kept", l.ID)
	}
	m.lineStrings[l.ID] = l
}

// rebuild 重建有序列表与空间索引
func (m *PrimitiveManager) rebuild() {
	m.polygonList = lo.Values(m.polygons)
	sort.Slice(m.polygonList, func(i, j int) bool { return m.polygonList[i].ID < m.polygonList[j].ID })
	m.lineStringList = lo.Values(m.lineStrings)
	sort.Slice(m.lineStringList, func(i, j int) bool { return m.lineStringList[i].ID < m.lineStringList[j].ID })
	m.polygonIndex = spatial.NewIndex(m.polygonList, (*entity.Polygon3d).Bound)
	m.lineStringIndex = spatial.NewIndex(m.lineStringList, (*entity.LineString3d).Bound)
}

// Polygons 全部多边形（按ID升序）
func (m *PrimitiveManager) Polygons() []*entity.Polygon3d {
	return m.polygonList
}

// LineStrings 全部折线（按ID升序）
func (m *PrimitiveManager) LineStrings() []*entity.LineString3d {
	return m.lineStringList
}

func (m *PrimitiveManager) Polygon(id int64) (*entity.Polygon3d, bool) {
	p, ok := m.polygons[id]
	return p, ok
}

func (m *PrimitiveManager) LineString(id int64) (*entity.LineString3d, bool) {
	l, ok := m.lineStrings[id]
	return l, ok
}

// SearchPolygons 包围盒与bound相交的多边形（按ID升序）
func (m *PrimitiveManager) SearchPolygons(bound orb.Bound) []*entity.Polygon3d {
	return m.polygonIndex.Search(bound)
}

// SearchLineStrings 包围盒与bound相交的折线（按ID升序）
func (m *PrimitiveManager) SearchLineStrings(bound orb.Bound) []*entity.LineString3d {
	return m.lineStringIndex.Search(bound)
}
