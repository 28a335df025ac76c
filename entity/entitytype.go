package entity

import (
	"fmt"
	"strconv"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
)

// 常用属性名与属性值
const (
	AttrType    = "type"    // 类型属性名
	AttrSubtype = "subtype" // 子类型属性名

	AttrValueNone = "none" // 属性缺失时的默认值
)

// Attributes 地图元素的属性集合（属性名 -> 属性值）
// 说明：数值型属性同样以字符串存储，需要时再解析
type Attributes map[string]string

// Get 获取属性值，不存在时ok=false
func (a Attributes) Get(name string) (value string, ok bool) {
	value, ok = a[name]
	return
}

// GetOr 获取属性值，不存在时返回默认值
func (a Attributes) GetOr(name, def string) string {
	if v, ok := a[name]; ok {
		return v
	}
	return def
}

// GetInt64 将属性值解析为整数（例如引用其他元素的ID）
func (a Attributes) GetInt64(name string) (int64, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("no attribute %s", name)
	}
	return strconv.ParseInt(v, 10, 64)
}

// Pose 带朝向的位置
type Pose struct {
	Position geometry.Point // 位置（z坐标在查询中被忽略）
	Yaw      float64        // 朝向（弧度，x轴正方向为0，逆时针为正）
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{X=%v, Y=%v, Z=%v, Yaw=%v}", p.Position.X, p.Position.Y, p.Position.Z, p.Yaw)
}

// Polygon3d 闭合区域（停车场、障碍物等），首尾点不重复
type Polygon3d struct {
	ID     int64
	Points []geometry.Point
	Attrs  Attributes
}

func (p *Polygon3d) String() string {
	return fmt.Sprintf("Polygon %d", p.ID)
}

// Polygon2d 投影到xy平面的多边形
func (p *Polygon3d) Polygon2d() orb.Polygon {
	ring := make(orb.Ring, 0, len(p.Points)+1)
	for _, pt := range p.Points {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// Bound 二维包围盒
func (p *Polygon3d) Bound() orb.Bound {
	return p.Polygon2d().Bound()
}

// LineString3d 开放折线（停车位、路缘石、停止线等）
type LineString3d struct {
	ID     int64
	Points []geometry.Point
	Attrs  Attributes
}

func (l *LineString3d) String() string {
	return fmt.Sprintf("LineString %d", l.ID)
}

// LineString2d 投影到xy平面的折线
func (l *LineString3d) LineString2d() orb.LineString {
	ls := make(orb.LineString, 0, len(l.Points))
	for _, pt := range l.Points {
		ls = append(ls, orb.Point{pt.X, pt.Y})
	}
	return ls
}

// Bound 二维包围盒
func (l *LineString3d) Bound() orb.Bound {
	return l.LineString2d().Bound()
}

// Front 首点
func (l *LineString3d) Front() geometry.Point {
	return l.Points[0]
}

// Back 尾点
func (l *LineString3d) Back() geometry.Point {
	return l.Points[len(l.Points)-1]
}

// Size 点数
func (l *LineString3d) Size() int {
	return len(l.Points)
}

// entity/lanelet/lanelet.go的依赖倒置
type ILanelet interface {
	String() string

	ID() int64                // 获取Lanelet ID
	Attributes() Attributes   // 获取属性集合
	Subtype() string          // 获取subtype属性，不存在时为空字符串
	HasAttribute(string) bool // 检查是否存在属性

	LeftBound() []geometry.Point  // 左边界（3D）
	RightBound() []geometry.Point // 右边界（3D）
	CenterLine() []geometry.Point // 中心线（3D）
	CenterLineLengths() []float64 // 中心线各点对应的累计长度（2D）
	Polygon2d() orb.Polygon       // 左边界+反向右边界构成的闭合多边形（2D）
	Bound() orb.Bound             // 二维包围盒

	Length2d() float64 // 中心线长度（2D）
	Length3d() float64 // 中心线长度（3D）

	GetPositionByS(s float64) geometry.Point              // 将中心线s坐标转换为xyz坐标
	GetDirectionByS(s float64) geometry.PolylineDirection // 根据中心线s坐标计算切向角度
	ProjectToLanelet(pos geometry.Point) float64          // 将xy坐标投影到中心线上，返回s坐标
}

// 路网拓扑（routing graph）接口
// 说明：查询引擎只读取拓扑关系，不关心其存储方式；图中可能存在环
type IRoutingGraph interface {
	Following(l ILanelet) []ILanelet   // 可直接驶入的后继Lanelet
	Previous(l ILanelet) []ILanelet    // 可直接驶来的前驱Lanelet
	Left(l ILanelet) ILanelet          // 允许变道的左侧Lanelet，不存在时为nil
	Right(l ILanelet) ILanelet         // 允许变道的右侧Lanelet，不存在时为nil
	AdjacentLeft(l ILanelet) ILanelet  // 不允许变道的左侧相邻Lanelet，不存在时为nil
	AdjacentRight(l ILanelet) ILanelet // 不允许变道的右侧相邻Lanelet，不存在时为nil
	// 通过变道可到达的所有Lanelet（含自身），从左到右排序
	Besides(l ILanelet) []ILanelet
}

// 地图数据接口
type ILaneletMap interface {
	Lanelets() []ILanelet                              // 全部Lanelet
	Polygons() []*Polygon3d                            // 全部多边形
	LineStrings() []*LineString3d                      // 全部折线
	LineString(id int64) (*LineString3d, bool)         // 根据ID获取折线
	SearchPolygons(bound orb.Bound) []*Polygon3d       // 包围盒与bound相交的多边形
	SearchLineStrings(bound orb.Bound) []*LineString3d // 包围盒与bound相交的折线
}
