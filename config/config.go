package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/tuwen/layout"
)

// CardConfig 描述卡片样式：比例、预览宽度、装饰区与渲染外观。
// 这些值只影响约束推导与渲染外观，分页算法本身不读配置。
type CardConfig struct {
	Aspect       string  `yaml:"aspect"`
	PreviewWidth int     `yaml:"previewWidth"`
	ChromeHeight int     `yaml:"chromeHeight"`
	Author       string  `yaml:"author"`
	Font         string  `yaml:"font"`
	Background   string  `yaml:"background"`
	TextColor    string  `yaml:"color"`
	AccentColor  string  `yaml:"accent"`
	Scale        float64 `yaml:"scale"`
	Language     string  `yaml:"language"`
}

// LoggingConfig 控制控制台日志级别：none/normal/debug。
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config 是程序的整体配置。
type Config struct {
	Card    CardConfig    `yaml:"card"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		Card: CardConfig{
			Aspect:       layout.DefaultAspect,
			PreviewWidth: 360,
			ChromeHeight: 72,
			Background:   "#FFFFFF",
			TextColor:    "#1E1E1E",
			AccentColor:  "#0F62FE",
			Scale:        3,
			Language:     "zh",
		},
		Logging: LoggingConfig{Level: "normal"},
	}
}

// Load 读取 YAML 配置并与默认值合成；path 为空或文件不存在时使用默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Card.PreviewWidth < 0 {
		return fmt.Errorf("previewWidth 不能为负数: %d", c.Card.PreviewWidth)
	}
	if c.Card.ChromeHeight < 0 {
		return fmt.Errorf("chromeHeight 不能为负数: %d", c.Card.ChromeHeight)
	}
	if c.Card.Scale <= 0 {
		c.Card.Scale = 3
	}
	switch c.Logging.Level {
	case "", "none", "normal", "debug":
	default:
		return fmt.Errorf("未知的日志级别: %s", c.Logging.Level)
	}
	return nil
}

// Constraints 由卡片配置推导当前的分页约束。
func (c *Config) Constraints() layout.Constraints {
	return layout.ConstraintsFor(c.Card.Aspect, c.Card.PreviewWidth, c.Card.ChromeHeight)
}
