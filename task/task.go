package task

import (
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/lanelet"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/primitive"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/routing"
	"github.com/tsinghua-fib-lab/lanelet-query/query"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/config"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/input"
)

// Context 查询任务上下文
// 功能：持有一次查询任务的地图、路网拓扑与查询器，替代全局变量
// 说明：Init完成后只读，可被多个goroutine并发查询
type Context struct {
	// Lanelet管理器
	laneletManager entity.ILaneletManager
	// 多边形与折线图层管理器
	primitiveManager entity.IPrimitiveManager
	// 路网拓扑
	graph *routing.Graph
	// 查询器
	querier *query.Querier

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 根据配置加载数据并创建查询任务上下文
// 参数：c-配置对象，cacheDir-缓存目录
// 返回：初始化完成的Context实例
func NewContext(c config.Config, cacheDir string) (*Context, error) {
	initRes, err := input.Init(c, cacheDir)
	if err != nil {
		return nil, err
	}
	ctx := New(initRes, c.Query)
	if err := ctx.Init(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// New 使用已加载的输入数据创建上下文，需再调用Init
func New(initRes *input.Input, opts query.Options) *Context {
	return &Context{
		laneletManager:   lanelet.NewManager(),
		primitiveManager: primitive.NewManager(),
		graph:            routing.NewGraph(),
		querier:          query.New(opts),
		initRes:          initRes,
	}
}

// Init 构建地图
// 算法说明：
// 1. 由车道构建Lanelet，再由车道连接关系构建路网拓扑
// 2. AOI作为多边形载入
// 3. 载入GeoJSON叠加层
func (ctx *Context) Init() error {
	mapData := ctx.initRes.Map
	if mapData == nil {
		return errors.New("no map data")
	}
	log.Infof("Lane: %v", len(mapData.Lanes))
	log.Infof("AOI: %v", len(mapData.Aois))

	ctx.laneletManager.Init(mapData.Lanes) // 先完成lanelet的所有初始化
	ctx.graph.Init(mapData.Lanes, ctx.laneletManager)
	ctx.primitiveManager.InitFromAois(mapData.Aois)
	if ctx.initRes.Overlay != nil {
		if err := ctx.primitiveManager.InitFromGeoJSON(ctx.initRes.Overlay); err != nil {
			return errors.Wrap(err, "failed to load overlay")
		}
	}
	return nil
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) LaneletManager() entity.ILaneletManager {
	return ctx.laneletManager
}

func (ctx *Context) PrimitiveManager() entity.IPrimitiveManager {
	return ctx.primitiveManager
}

func (ctx *Context) RoutingGraph() entity.IRoutingGraph {
	return ctx.graph
}

func (ctx *Context) Querier() *query.Querier {
	return ctx.querier
}

// Lanelets implements entity.ILaneletMap.
func (ctx *Context) Lanelets() []entity.ILanelet {
	return ctx.laneletManager.All()
}

// Polygons implements entity.ILaneletMap.
func (ctx *Context) Polygons() []*entity.Polygon3d {
	return ctx.primitiveManager.Polygons()
}

// LineStrings implements entity.ILaneletMap.
func (ctx *Context) LineStrings() []*entity.LineString3d {
	return ctx.primitiveManager.LineStrings()
}

// LineString implements entity.ILaneletMap.
func (ctx *Context) LineString(id int64) (*entity.LineString3d, bool) {
	return ctx.primitiveManager.LineString(id)
}

// SearchPolygons implements entity.ILaneletMap.
func (ctx *Context) SearchPolygons(bound orb.Bound) []*entity.Polygon3d {
	return ctx.primitiveManager.SearchPolygons(bound)
}

// SearchLineStrings implements entity.ILaneletMap.
func (ctx *Context) SearchLineStrings(bound orb.Bound) []*entity.LineString3d {
	return ctx.primitiveManager.SearchLineStrings(bound)
}
