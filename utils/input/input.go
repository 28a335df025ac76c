package input

import (
	"context"
	"os"

	"git.fiblab.net/general/common/v2/cache"
	"git.fiblab.net/general/common/v2/mongoutil"
	"git.fiblab.net/general/common/v2/protoutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/protobuf/proto"
)

// Input 输入数据
// 功能：存储构建查询地图所需的全部数据
type Input struct {
	Map     *mapv2.Map                 // 城市地图（车道、AOI）
	Overlay *geojson.FeatureCollection // GeoJSON叠加层，未配置时为nil
}

// Init 加载数据
// 功能：根据配置加载城市地图与GeoJSON叠加层
// 参数：config-配置对象，cacheDir-缓存目录（为空则禁用缓存）
// 返回：加载完成的输入数据
// 算法说明：
// 1. 缓存检查：验证缓存目录的有效性
// 2. 地图数据加载：优先从文件加载，否则从MongoDB（经缓存）加载
// 3. 叠加层加载：读取GeoJSON文件
// 4. 数据检查：统计引用了不存在车道的连接
func Init(config config.Config, cacheDir string) (*Input, error) {
	if !preCheckCache(cacheDir) {
		cacheDir = ""
	}

	res := &Input{}
	if config.Input.Map.File != "" {
		var m mapv2.Map
		if err := protoutil.UnmarshalFromFile(&m, config.Input.Map.File); err != nil {
			return nil, errors.Wrap(err, "failed to load map from file")
		}
		res.Map = &m
	} else {
		var client *mongo.Client
		if config.Input.URI != "" {
			client = mongoutil.NewClient(config.Input.URI)
			defer client.Disconnect(context.Background())
		} else if !config.Input.Map.OnlyCache {
			return nil, errors.New("input.uri is required to download map")
		}
		m, err := load[mapv2.Map](client, config.Input.Map, cacheDir, nil)
		if err != nil {
			return nil, err
		}
		res.Map = m
	}

	if config.Input.Overlay != "" {
		fc, err := loadOverlay(config.Input.Overlay)
		if err != nil {
			return nil, err
		}
		res.Overlay = fc
	}

	if n := countDanglingConnections(res.Map); n > 0 {
		log.Warnf("%d lane connections refer to missing lanes", n)
	}
	return res, nil
}

// load 从MongoDB或缓存中加载数据（泛型函数）
// 参数：client-MongoDB客户端，inputPath-输入路径配置，cacheDir-缓存目录，handler-逐条数据的检查函数，opts-查询选项
// 返回：加载的数据对象
// 说明：only_cache时不连接数据库，缓存不存在则返回错误
func load[T any, PT interface {
	proto.Message
	*T
}](
	client *mongo.Client,
	inputPath config.InputPath,
	cacheDir string,
	handler func(className string, pb any, rawBson bson.Raw) error,
	opts ...*options.FindOptions,
) (PT, error) {
	var downloadFunc func() PT
	var downloadErr error
	if !inputPath.OnlyCache {
		coll := mongoutil.GetMongoColl(client, inputPath)
		downloadFunc = func() PT {
			pb, errs := mongoutil.DownloadPbFromMongo[T, PT](context.Background(), coll, nil, handler, opts...)
			if len(errs) > 0 {
				for _, err := range errs {
					log.Errorf("failed to download: %v", err)
				}
				downloadErr = errors.Errorf("failed to download %s.%s", inputPath.DB, inputPath.Col)
			}
			return pb
		}
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	res, err := cache.LoadWithCache(cacheDir, inputPath, downloadFunc)
	if downloadErr != nil {
		var zero PT
		return zero, downloadErr
	}
	if err != nil {
		var zero PT
		return zero, errors.Wrap(err, "failed to load with cache")
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	return res, nil
}

// loadOverlay 读取GeoJSON叠加层文件
func loadOverlay(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read overlay")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse overlay %s", path)
	}
	log.Infof("load %d features from overlay %s", len(fc.Features), path)
	return fc, nil
}
