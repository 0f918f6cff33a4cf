package media

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试图片失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("写入测试图片失败: %v", err)
	}
	return path
}

// TestLoad 验证图片按给定顺序接入并记录自然尺寸。
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTestPNG(t, dir, "a.png", 40, 30)
	p2 := writeTestPNG(t, dir, "b.png", 10, 80)

	assets, err := Load([]string{p1, p2}, zap.NewNop())
	if err != nil {
		t.Fatalf("接入失败: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("期望 2 张图片，实际 %d", len(assets))
	}
	if assets[0].Width != 40 || assets[0].Height != 30 {
		t.Fatalf("第一张尺寸不符: %+v", assets[0])
	}
	if assets[1].Name != "b.png" || assets[1].Image == nil {
		t.Fatalf("第二张接入不完整: %+v", assets[1])
	}
}

// TestLoadNonImage 验证非图片文件按输入错误累积，可读图片仍被接入。
func TestLoadNonImage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(bad, []byte("这不是图片"), 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	good := writeTestPNG(t, dir, "ok.png", 8, 8)

	assets, err := Load([]string{bad, good}, zap.NewNop())
	if err == nil {
		t.Fatal("非图片文件应当报错")
	}
	if len(assets) != 1 || assets[0].Name != "ok.png" {
		t.Fatalf("可读图片应照常接入: %+v", assets)
	}
}

// TestLoadMissingFile 验证不可读文件报错且不中断后续接入。
func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPNG(t, dir, "ok.png", 8, 8)

	assets, err := Load([]string{filepath.Join(dir, "absent.png"), good}, zap.NewNop())
	if err == nil {
		t.Fatal("不存在的文件应当报错")
	}
	if len(assets) != 1 {
		t.Fatalf("期望 1 张图片，实际 %+v", assets)
	}
}

// TestDims 验证尺寸映射只包含解码成功的图片。
func TestDims(t *testing.T) {
	assets := []Asset{
		{Width: 20, Height: 10},
		{}, // 解码失败：无尺寸
		{Width: 5, Height: 5},
	}
	dims := Dims(assets)
	if len(dims) != 2 {
		t.Fatalf("期望 2 条尺寸记录，实际 %v", dims)
	}
	if d := dims[0]; d.Width != 20 || d.Height != 10 {
		t.Fatalf("下标 0 尺寸不符: %+v", d)
	}
	if _, ok := dims[1]; ok {
		t.Fatal("无尺寸的图片不应产生记录")
	}
}
