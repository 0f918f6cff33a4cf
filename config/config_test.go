package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault 验证内置默认配置的关键取值。
func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Card.Aspect != "3:4" {
		t.Fatalf("默认比例不符: %s", cfg.Card.Aspect)
	}
	if cfg.Card.PreviewWidth != 360 || cfg.Card.ChromeHeight != 72 {
		t.Fatalf("默认尺寸不符: %+v", cfg.Card)
	}
	if cfg.Logging.Level != "normal" {
		t.Fatalf("默认日志级别不符: %s", cfg.Logging.Level)
	}
}

// TestLoadMissingFile 验证空路径与不存在的文件都回落到默认配置。
func TestLoadMissingFile(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("路径 %q 不应报错: %v", path, err)
		}
		if cfg.Card.Aspect != Default().Card.Aspect {
			t.Fatalf("路径 %q 未回落到默认配置", path)
		}
	}
}

// TestLoadOverrides 验证 YAML 覆盖与默认值合成。
func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "card:\n  aspect: \"9:16\"\n  author: 测试作者\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Card.Aspect != "9:16" || cfg.Card.Author != "测试作者" {
		t.Fatalf("覆盖值未生效: %+v", cfg.Card)
	}
	if cfg.Card.PreviewWidth != 360 {
		t.Fatalf("未覆盖的字段应保持默认: %+v", cfg.Card)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("日志级别未生效: %s", cfg.Logging.Level)
	}
}

// TestLoadInvalidLevel 验证未知日志级别报错。
func TestLoadInvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: verbose\n"), 0o644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("未知日志级别应当报错")
	}
}

// TestConstraints 验证由卡片配置推导的分页约束。
func TestConstraints(t *testing.T) {
	cfg := Default()
	cons := cfg.Constraints()
	if cons.ContentWidth != 332 {
		t.Fatalf("内容宽度不符: %d", cons.ContentWidth)
	}
	if cons.MaxPageHeight != 480 {
		t.Fatalf("页高预算不符: %d", cons.MaxPageHeight)
	}
	if cons.FixedChrome != 72 {
		t.Fatalf("装饰区高度不符: %d", cons.FixedChrome)
	}
}

// TestPrepareNone 验证 none 级别返回空日志器（不触碰标准输出）。
func TestPrepareNone(t *testing.T) {
	conf := LoggingConfig{Level: "none"}
	log := conf.Prepare()
	if log == nil {
		t.Fatal("Prepare 不应返回 nil")
	}
	log.Info("不应输出")
}
