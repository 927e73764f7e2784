// Package config 提供服务配置的加载（YAML）与默认值。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是服务配置（支持 YAML）。
type Config struct {
	Data    DataConfig     `yaml:"data"`
	Engine  EngineConfig   `yaml:"engine"`
	Filters []FilterConfig `yaml:"filters"`
	Redis   RedisConfig    `yaml:"redis"`
	Server  ServerConfig   `yaml:"server"`
}

// DataConfig 指定三份输入制品的位置。
type DataConfig struct {
	Embeddings      string `yaml:"embeddings"`        // 向量制品（JSON，三种形态之一）
	Metadata        string `yaml:"metadata"`          // 文章元数据 CSV
	ClicksDir       string `yaml:"clicks_dir"`        // 点击 CSV 目录
	ClicksFileLimit int    `yaml:"clicks_file_limit"` // 读取的点击文件上限
}

// EngineConfig 是推荐引擎的调参项。
type EngineConfig struct {
	SeedLimit   int `yaml:"seed_limit"`    // 相似度扩展的历史种子上限
	NeighborK   int `yaml:"neighbor_k"`    // 每个种子的相似候选数
	DefaultTopN int `yaml:"default_top_n"` // 请求未指定 top_n 时的默认值
}

// FilterConfig 是一条候选过滤器配置。
type FilterConfig struct {
	Type       string  `yaml:"type"`        // blacklist / rule
	ArticleIDs []int64 `yaml:"article_ids"` // blacklist: 剔除的文章 ID
	Expr       string  `yaml:"expr"`        // rule: CEL 表达式
}

// RedisConfig 是可选的共享热门榜后端。Addr 为空表示不启用。
type RedisConfig struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	HotKey string `yaml:"hot_key"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default 返回带默认值的配置。
func Default() *Config {
	cfg := &Config{}
	cfg.Data.Embeddings = "data/articles_embeddings.json"
	cfg.Data.Metadata = "data/articles_metadata.csv"
	cfg.Data.ClicksDir = "data/clicks"
	cfg.Data.ClicksFileLimit = 10
	cfg.Engine.SeedLimit = 5
	cfg.Engine.NeighborK = 20
	cfg.Engine.DefaultTopN = 5
	cfg.Redis.HotKey = "hot:articles"
	cfg.Server.Addr = ":8080"
	return cfg
}

// Load 从 YAML 文件加载配置，未出现的字段保留默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Default()
	if c.Data.ClicksFileLimit <= 0 {
		c.Data.ClicksFileLimit = def.Data.ClicksFileLimit
	}
	if c.Engine.SeedLimit <= 0 {
		c.Engine.SeedLimit = def.Engine.SeedLimit
	}
	if c.Engine.NeighborK <= 0 {
		c.Engine.NeighborK = def.Engine.NeighborK
	}
	if c.Engine.DefaultTopN <= 0 {
		c.Engine.DefaultTopN = def.Engine.DefaultTopN
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Redis.HotKey == "" {
		c.Redis.HotKey = def.Redis.HotKey
	}
}
