package config

import (
	"encoding/base64"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Load 读取配置
// 功能：从配置文件或Base64编码的配置数据中解析配置
// 参数：path-配置文件路径，data-Base64编码的配置数据（path为空时使用）
// 返回：配置对象，二者均为空、读取失败或存在未知字段时返回错误
func Load(path, data string) (Config, error) {
	var file []byte
	var err error
	switch {
	case path != "":
		if file, err = os.ReadFile(path); err != nil {
			return Config{}, errors.Wrap(err, "config file load err")
		}
	case data != "":
		if file, err = base64.StdEncoding.DecodeString(data); err != nil {
			return Config{}, errors.Wrap(err, "config data load err")
		}
	default:
		return Config{}, errors.New("config file or config data must be specified")
	}
	return Parse(file)
}

// Parse 解析YAML配置，存在未知字段时返回错误
func Parse(file []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		return Config{}, errors.Wrap(err, "config parse err")
	}
	if c.Input.Map.File == "" && c.Input.Map.Col == "" {
		return Config{}, errors.New("input.map needs either file or db/col")
	}
	return c, nil
}
