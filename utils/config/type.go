package config

import "github.com/tsinghua-fib-lab/lanelet-query/query"

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：文件优先于MongoDB；从MongoDB下载的数据可缓存到本地
type InputPath struct {
	DB        string `yaml:"db,omitempty"`         // 数据库名
	Col       string `yaml:"col,omitempty"`        // 集合名
	Cache     string `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.pb
	OnlyCache bool   `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// GetCachePath 获取缓存文件路径
// 算法说明：
// 1. 如果指定了缓存路径，直接返回
// 2. 否则使用默认命名规则：{数据库名}.{集合名}.pb
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".pb"
}

// Input 指定所有输入数据的配置项
type Input struct {
	URI     string    `yaml:"uri,omitempty"`     // MongoDB连接字符串
	Map     InputPath `yaml:"map"`               // 城市地图（车道、AOI）
	Overlay string    `yaml:"overlay,omitempty"` // GeoJSON叠加层文件（停车场、停车位、路缘石等）
}

// Config YAML配置文件的根结构
type Config struct {
	Input Input         `yaml:"input"`           // 输入
	Query query.Options `yaml:"query,omitempty"` // 查询阈值，缺省字段使用默认值
}
