package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"git.fiblab.net/general/common/v2/geometry"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/task"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/config"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 数据加载input的缓存地址，设置为空则禁用缓存功能
	// 缓存：将proto数据根据数据库db和col序列化到本地文件系统，并总是先试图从文件系统中加载
	cacheDir = flag.String("cache", "data/", "input cache dir path (empty means disable cache)")

	// 查询参数
	op       = flag.String("op", task.OpClosest, "query operation (closest closest_constrained current neighbors all_neighbors succeeding preceding parking_lot parking_spaces parking_lanelets waypoints)")
	x        = flag.Float64("x", 0, "query position x")
	y        = flag.Float64("y", 0, "query position y")
	z        = flag.Float64("z", 0, "query position z")
	yaw      = flag.Float64("yaw", 0, "query heading in radians")
	id       = flag.Int64("id", 0, "lanelet or parking space id")
	length   = flag.Float64("length", 50, "minimum length of lanelet sequences")
	maxDist  = flag.Float64("max-dist", 5, "max distance of constrained closest query")
	maxYaw   = flag.Float64("max-yaw", 0.5, "max heading difference (radians) of constrained closest query")
	exclude  = flag.String("exclude", "", "comma separated lanelet ids not expanded by preceding query")
	outputTo = flag.String("output", "", "output geojson file path (empty means stdout)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "lanelet-query")
)

func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, nil
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// 日志输出到stderr，stdout留给查询结果
	logrus.SetOutput(os.Stderr)
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	c, err := config.Load(*configPath, *configData)
	if err != nil {
		log.Panicf("%v", err)
	}
	log.Infof("%+v", c)

	excluded, err := parseIDs(*exclude)
	if err != nil {
		log.Panicf("bad exclude ids: %v", err)
	}

	ctx, err := task.NewContext(c, *cacheDir)
	if err != nil {
		log.Panicf("failed to init: %v", err)
	}
	fc, err := ctx.Run(task.Request{
		Op:          *op,
		Pose:        entity.Pose{Position: geometry.Point{X: *x, Y: *y, Z: *z}, Yaw: *yaw},
		ID:          *id,
		Length:      *length,
		MaxDistance: *maxDist,
		MaxYawDiff:  *maxYaw,
		Exclude:     excluded,
	})
	if err != nil {
		log.Panicf("query failed: %v", err)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		log.Panicf("failed to marshal result: %v", err)
	}
	if *outputTo == "" {
		os.Stdout.Write(append(data, '\n'))
		return
	}
	if err := os.WriteFile(*outputTo, data, 0o644); err != nil {
		log.Panicf("failed to write result: %v", err)
	}
}
