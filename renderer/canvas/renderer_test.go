package canvasrenderer

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/ByLCY/tuwen/layout"
)

// TestTokenize 验证空白段与非空白段交替切分。
func TestTokenize(t *testing.T) {
	got := tokenize("ab  cd e")
	want := []string{"ab", "  ", "cd", " ", "e"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("切分不符: got=%v want=%v", got, want)
	}
	if out := tokenize(""); len(out) != 0 {
		t.Fatalf("空串不应产生词元: %v", out)
	}
}

// TestRenderRequiresFont 验证未配置字体时渲染直接报错。
func TestRenderRequiresFont(t *testing.T) {
	r := New(Options{}, nil)
	res := &layout.Result{Pages: []layout.Page{{}}}
	if _, err := r.Render(res, nil); err == nil {
		t.Fatal("缺少字体应当报错")
	}
}

// TestRenderEmptyResult 验证空结果报错而不是产生零页输出。
func TestRenderEmptyResult(t *testing.T) {
	r := New(Options{}, nil)
	if _, err := r.Render(nil, nil); err == nil {
		t.Fatal("空结果应当报错")
	}
	if _, err := r.Render(&layout.Result{}, nil); err == nil {
		t.Fatal("无页面的结果应当报错")
	}
}

// findTestFont 在常见系统路径中寻找可用的 TTF/OTF 字体。
func findTestFont() string {
	patterns := []string{
		"/usr/share/fonts/**/*.ttf",
		"/usr/share/fonts/**/*.otf",
		"/usr/share/fonts/*/*.ttf",
		"/System/Library/Fonts/*.ttf",
	}
	for _, p := range patterns {
		if matches, _ := filepath.Glob(p); len(matches) > 0 {
			return matches[0]
		}
	}
	return ""
}

// TestRenderSmoke 端到端渲染一页文本卡片并验证输出是合法 PNG。
// 运行环境没有系统字体时跳过。
func TestRenderSmoke(t *testing.T) {
	fontPath := findTestFont()
	if fontPath == "" {
		t.Skip("未找到系统字体，跳过渲染冒烟测试")
	}
	if _, err := os.Stat(fontPath); err != nil {
		t.Skip("系统字体不可读，跳过渲染冒烟测试")
	}

	cons := layout.ConstraintsFor("3:4", 360, 72)
	res := layout.Paginate("hello world", 0, nil, cons, language.English)

	r := New(Options{
		Font:        Resource{Path: fontPath},
		Author:      "tester",
		Background:  "#FFFFFF",
		TextColor:   "#1E1E1E",
		AccentColor: "#0F62FE",
		Scale:       1,
	}, nil)

	pages, err := r.Render(res, nil)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("期望 1 页输出，实际 %d", len(pages))
	}
	img, err := png.Decode(bytes.NewReader(pages[0]))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	w, h := cons.PageSize()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("输出尺寸 %v 与页面尺寸 %dx%d 不符", img.Bounds(), w, h)
	}
}
