package lanelet

import (
	"fmt"
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	geov2 "git.fiblab.net/sim/protos/v2/go/city/geo/v2"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// 常用的Lanelet subtype取值
const (
	SubtypeRoad         = "road"
	SubtypeCrosswalk    = "crosswalk"
	SubtypeWalkway      = "walkway"
	SubtypeRoadShoulder = "road_shoulder"
	SubtypeBicycleLane  = "bicycle_lane"
	SubtypeRailTransit  = "rail_transit"

	TypeLanelet = "lanelet"
)

// Lanelet 车道片段实体
// 功能：由左右边界围成的可通行区域，提供中心线几何、闭合多边形与s坐标换算
// 说明：构造完成后只读，可被多个查询并发访问
type Lanelet struct {
	id    int64
	attrs entity.Attributes

	left  []geometry.Point // 左边界
	right []geometry.Point // 右边界

	line           []geometry.Point             // 中心线
	lineLengths    []float64                    // 中心线折线点对应的长度列表（2D）
	lineDirections []geometry.PolylineDirection // 中心线折线段每一段的方向（atan2）
	length         float64                      // 中心线长度（2D）
	length3d       float64                      // 中心线长度（3D）

	polygon orb.Polygon // 左边界+反向右边界
	bound   orb.Bound
}

// New 由左右边界创建Lanelet
// 功能：计算中心线（两侧边界按弧长重采样到相同点数后取中点）、闭合多边形和长度
// 参数：id-Lanelet ID，left-左边界，right-右边界，attrs-属性集合
// 返回：初始化完成的Lanelet实例
// 说明：边界与车辆行驶方向同向；任一边界为空时中心线为空，s坐标相关方法返回零值
func New(id int64, left, right []geometry.Point, attrs entity.Attributes) *Lanelet {
	if attrs == nil {
		attrs = entity.Attributes{}
	}
	l := &Lanelet{
		id:    id,
		attrs: attrs,
		left:  left,
		right: right,
	}
	if len(left) > 0 && len(right) > 0 {
		n := max(len(left), len(right))
		ls, rs := resample(left, n), resample(right, n)
		l.line = make([]geometry.Point, n)
		for i := range l.line {
			l.line[i] = geometry.Blend(ls[i], rs[i], 0.5)
		}
	}
	if len(l.line) > 0 {
		l.lineLengths = geometry.GetPolylineLengths2D(l.line)
		l.length = l.lineLengths[len(l.lineLengths)-1]
		if len(l.line) > 1 {
			l.lineDirections = geometry.GetPolylineDirections(l.line)
		}
	}
	l.length3d = geom.Length3d(l.line)
	outline := make([]geometry.Point, 0, len(left)+len(right))
	outline = append(outline, left...)
	for i := len(right) - 1; i >= 0; i-- {
		outline = append(outline, right[i])
	}
	l.polygon = geom.ToPolygon2d(outline)
	l.bound = l.polygon.Bound()
	return l
}

// newFromPb 由城市地图车道创建Lanelet
// 功能：以车道中心线为基准，向左右各偏移半个车道宽度得到边界
// 参数：base-车道protobuf数据
// 返回：Lanelet实例，属性中记录类型、转向与限速
func newFromPb(base *mapv2.Lane) *Lanelet {
	line := lo.Map(base.CenterLine.GetNodes(), func(node *geov2.XYPosition, _ int) geometry.Point {
		return geometry.NewPointFromPb(node)
	})
	left, right := offsetLine(line, base.Width/2), offsetLine(line, -base.Width/2)
	attrs := entity.Attributes{
		entity.AttrType: TypeLanelet,
		"turn":          base.Turn.String(),
		"speed_limit":   fmt.Sprint(base.MaxSpeed),
	}
	switch base.Type {
	case mapv2.LaneType_LANE_TYPE_DRIVING:
		attrs[entity.AttrSubtype] = SubtypeRoad
	case mapv2.LaneType_LANE_TYPE_WALKING:
		attrs[entity.AttrSubtype] = SubtypeWalkway
	case mapv2.LaneType_LANE_TYPE_RAIL_TRANSIT:
		attrs[entity.AttrSubtype] = SubtypeRailTransit
	default:
		log.Warnf("unknown type %v for lane %d", base.Type, base.Id)
	}
	return New(int64(base.Id), left, right, attrs)
}

// offsetLine 将折线沿左法向平移offset（负值向右）
// 说明：中间点的法向取相邻两段方向的平均
func offsetLine(line []geometry.Point, offset float64) []geometry.Point {
	if len(line) < 2 {
		return append([]geometry.Point(nil), line...)
	}
	dirs := geometry.GetPolylineDirections(line)
	res := make([]geometry.Point, len(line))
	for i, p := range line {
		var angle float64
		switch i {
		case 0:
			angle = dirs[0].Direction
		case len(line) - 1:
			angle = dirs[len(dirs)-1].Direction
		default:
			a, b := dirs[i-1].Direction, dirs[i].Direction
			angle = a + geom.NormalizeRadian(b-a)/2
		}
		res[i] = geometry.Point{
			X: p.X + offset*math.Cos(angle+math.Pi/2),
			Y: p.Y + offset*math.Sin(angle+math.Pi/2),
			Z: p.Z,
		}
	}
	return res
}

// resample 将折线按2D弧长均匀重采样为n个点（n>=1）
func resample(line []geometry.Point, n int) []geometry.Point {
	if len(line) == n {
		return line
	}
	if len(line) == 1 || n == 1 {
		return lo.Times(n, func(int) geometry.Point { return line[0] })
	}
	lengths := geometry.GetPolylineLengths2D(line)
	total := lengths[len(lengths)-1]
	res := make([]geometry.Point, n)
	for i := range res {
		res[i] = positionByS(line, lengths, total*float64(i)/float64(n-1))
	}
	return res
}

// positionByS 折线上s处的插值点，s需在[0, 总长]内
func positionByS(line []geometry.Point, lengths []float64, s float64) geometry.Point {
	i := sort.SearchFloat64s(lengths, s)
	switch {
	case i == 0:
		return line[0]
	case i >= len(line):
		return line[len(line)-1]
	}
	sHigh, sLow := lengths[i], lengths[i-1]
	if sHigh == sLow {
		return line[i]
	}
	return geometry.Blend(line[i-1], line[i], (s-sLow)/(sHigh-sLow))
}

func (l *Lanelet) String() string {
	return fmt.Sprintf("Lanelet %d", l.id)
}

// 获取Lanelet ID
func (l *Lanelet) ID() int64 {
	return l.id
}

// 获取属性集合
func (l *Lanelet) Attributes() entity.Attributes {
	return l.attrs
}

// 获取subtype属性，不存在时为空字符串
func (l *Lanelet) Subtype() string {
	return l.attrs[entity.AttrSubtype]
}

// 检查是否存在属性
func (l *Lanelet) HasAttribute(name string) bool {
	_, ok := l.attrs[name]
	return ok
}

func (l *Lanelet) LeftBound() []geometry.Point {
	return l.left
}

func (l *Lanelet) RightBound() []geometry.Point {
	return l.right
}

func (l *Lanelet) CenterLine() []geometry.Point {
	return l.line
}

func (l *Lanelet) CenterLineLengths() []float64 {
	return l.lineLengths
}

func (l *Lanelet) Polygon2d() orb.Polygon {
	return l.polygon
}

func (l *Lanelet) Bound() orb.Bound {
	return l.bound
}

func (l *Lanelet) Length2d() float64 {
	return l.length
}

func (l *Lanelet) Length3d() float64 {
	return l.length3d
}

// 根据中心线s坐标计算切向角度
func (l *Lanelet) GetDirectionByS(s float64) (direction geometry.PolylineDirection) {
	if len(l.lineDirections) == 0 {
		return
	}
	if s < l.lineLengths[0] || s > l.length {
		log.Debugf("get direction with s %v out of range{%v,%v}", s, l.lineLengths[0], l.length)
		s = lo.Clamp(s, l.lineLengths[0], l.length)
	}
	if i := sort.SearchFloat64s(l.lineLengths, s); i == 0 {
		direction = l.lineDirections[0]
	} else {
		direction = l.lineDirections[min(i, len(l.lineDirections))-1]
	}
	return
}

// 将中心线s坐标转换为xyz坐标
func (l *Lanelet) GetPositionByS(s float64) (pos geometry.Point) {
	if len(l.line) == 0 {
		return
	}
	if s < l.lineLengths[0] || s > l.length {
		log.Debugf("get position with s %v out of range{%v,%v}", s, l.lineLengths[0], l.length)
		s = lo.Clamp(s, l.lineLengths[0], l.length)
	}
	return positionByS(l.line, l.lineLengths, s)
}

// 将xy坐标投影到中心线上，计算出对应的s坐标
func (l *Lanelet) ProjectToLanelet(pos geometry.Point) float64 {
	if len(l.line) < 2 {
		return 0
	}
	s := geometry.GetClosestPolylineSToPoint2D(l.line, l.lineLengths, pos)
	return lo.Clamp(s, 0, l.length)
}
