package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/tuwen/layout"
	"github.com/ByLCY/tuwen/media"
	"github.com/ByLCY/tuwen/renderer"
)

const (
	// 页脚保留高度（px）。固定区高度不足时页脚让位给页眉。
	footerHeight = 24

	bodyFontPx   = 18
	authorFontPx = 15
	footerFontPx = 12

	accentBarWidth  = 28.0
	accentBarHeight = 2.0

	// 字号从像素换算到磅：96dpi 下 1px = 0.75pt。
	pxToPt = 0.75
)

// Options configures the canvas renderer.
type Options struct {
	// Font 为正文字体，必须提供 Bytes 或 Path 之一。
	Font Resource

	Author      string
	Background  string // 十六进制颜色，如 #FFFFFF
	TextColor   string
	AccentColor string

	// Scale 是导出 PNG 时每个布局像素对应的物理像素数。
	Scale float64
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// Renderer draws pagination results via github.com/tdewolff/canvas and
// exports one PNG per page.
type Renderer struct {
	opts Options
	log  *zap.Logger

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a canvas-based card renderer.
func New(opts Options, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Renderer{opts: opts, log: log}
}

// Render 逐页渲染分页结果。单页失败不会中止其余页面，所有错误聚合返回；
// 返回的字节切片与成功渲染的页面一一对应。
func (r *Renderer) Render(res *layout.Result, assets []media.Asset) ([][]byte, error) {
	if res == nil || len(res.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	if err := r.ensureFamily(); err != nil {
		return nil, err
	}

	var (
		out  [][]byte
		errs error
	)
	for i, page := range res.Pages {
		data, err := r.renderPage(page, i+1, len(res.Pages), res.Constraints, assets)
		if err != nil {
			r.log.Error("页面渲染失败", zap.Int("page", i+1), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("第 %d 页: %w", i+1, err))
			continue
		}
		out = append(out, data)
	}
	return out, errs
}

func (r *Renderer) renderPage(page layout.Page, num, total int, cons layout.Constraints, assets []media.Asset) ([]byte, error) {
	w, h := cons.PageSize()
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	ctx.SetFillColor(hexColor(r.opts.Background, canvas.White))
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(w), float64(h)))

	footerH := footerHeight
	if footerH > cons.FixedChrome {
		footerH = cons.FixedChrome
	}
	headerH := cons.FixedChrome - footerH

	left := float64(cons.ContentLeft())
	contentWidth := float64(cons.ContentWidth)

	if err := r.drawHeader(ctx, left, float64(headerH)); err != nil {
		return nil, err
	}
	if footerH > 0 {
		if err := r.drawFooter(ctx, num, total, float64(w), float64(h), float64(footerH)); err != nil {
			return nil, err
		}
	}

	cursorY := float64(headerH)
	prevImage := false
	for i, it := range page.Items {
		if i > 0 {
			if prevImage && it.Kind == layout.KindImage {
				cursorY += layout.MediaGap
			} else {
				cursorY += layout.ParagraphGap
			}
		}
		var err error
		switch it.Kind {
		case layout.KindText:
			cursorY, err = r.drawText(ctx, it.Text, left, cursorY, contentWidth)
		case layout.KindImage:
			cursorY, err = r.drawImage(ctx, it, left, cursorY, contentWidth, assets)
		default:
			err = fmt.Errorf("未知的内容类型 %q", it.Kind)
		}
		if err != nil {
			return nil, err
		}
		prevImage = it.Kind == layout.KindImage
	}

	img := rasterizer.Draw(c, canvas.DPMM(r.opts.Scale), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader 绘制页眉：作者名与强调色短横线。页眉高度为零时整体省略。
func (r *Renderer) drawHeader(ctx *canvas.Context, left, headerH float64) error {
	if headerH <= 0 {
		return nil
	}
	if r.opts.Author != "" {
		face, err := r.face(authorFontPx, hexColor(r.opts.TextColor, canvas.Black))
		if err != nil {
			return err
		}
		metrics := face.Metrics()
		top := (headerH - accentBarHeight*2 - metrics.LineHeight) / 2
		if top < 0 {
			top = 0
		}
		ctx.DrawText(left, top+metrics.Ascent, canvas.NewTextLine(face, r.opts.Author, canvas.Left))
	}
	ctx.SetFillColor(hexColor(r.opts.AccentColor, canvas.Black))
	ctx.DrawPath(left, headerH-accentBarHeight*2, canvas.Rectangle(accentBarWidth, accentBarHeight))
	return nil
}

func (r *Renderer) drawFooter(ctx *canvas.Context, num, total int, pageW, pageH, footerH float64) error {
	face, err := r.face(footerFontPx, hexColor(r.opts.TextColor, canvas.Black))
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	top := pageH - footerH + (footerH-metrics.LineHeight)/2
	line := canvas.NewTextLine(face, fmt.Sprintf("%d / %d", num, total), canvas.Center)
	ctx.DrawText(pageW/2, top+metrics.Ascent, line)
	return nil
}

// drawText 逐段落贪心折行绘制文本，返回绘制后的纵向游标。
// 行高与段间距沿用布局常量，保证渲染结果与估算结果一致。
func (r *Renderer) drawText(ctx *canvas.Context, text string, left, y, width float64) (float64, error) {
	face, err := r.face(bodyFontPx, hexColor(r.opts.TextColor, canvas.Black))
	if err != nil {
		return y, err
	}
	metrics := face.Metrics()
	paragraphs := strings.Split(text, "\n")
	for pi, para := range paragraphs {
		if pi > 0 {
			y += layout.ParagraphGap
		}
		for _, line := range wrapLine(face, para, width) {
			if line != "" {
				baseline := y + (layout.LineHeight-metrics.LineHeight)/2 + metrics.Ascent
				ctx.DrawText(left, baseline, canvas.NewTextLine(face, line, canvas.Left))
			}
			y += layout.LineHeight
		}
	}
	return y, nil
}

// drawImage 绘制一张整图或切片。切片通过在原图自然分辨率上裁剪对应窗口
// 实现，避免二次采样造成接缝错位。
func (r *Renderer) drawImage(ctx *canvas.Context, it layout.Item, left, y, width float64, assets []media.Asset) (float64, error) {
	display := float64(it.DisplayHeight())
	if it.ImageIndex < 0 || it.ImageIndex >= len(assets) || assets[it.ImageIndex].Image == nil {
		// 素材缺失或解码失败：画占位框，高度照常推进
		ctx.SetFillColor(color.RGBA{})
		ctx.SetStrokeColor(hexColor(r.opts.AccentColor, canvas.Black))
		ctx.SetStrokeWidth(1)
		ctx.DrawPath(left, y, canvas.Rectangle(width, display))
		ctx.SetStrokeWidth(0)
		return y + display, nil
	}

	asset := assets[it.ImageIndex]
	src := asset.Image
	if it.Sliced() {
		// 布局坐标 -> 自然像素坐标
		scale := float64(asset.Height) / float64(it.FullHeight)
		y0 := int(math.Round(float64(it.ClipTop) * scale))
		y1 := int(math.Round(float64(it.ClipTop+it.ClipHeight) * scale))
		if y0 < 0 {
			y0 = 0
		}
		if y1 > asset.Height {
			y1 = asset.Height
		}
		if y1 <= y0 {
			return y, fmt.Errorf("图片 %d 的切片窗口 [%d,%d) 无效", it.ImageIndex+1, y0, y1)
		}
		src = imaging.Crop(src, image.Rect(0, y0, asset.Width, y1))
	}

	dpmm := float64(src.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(left, y, src, canvas.DPMM(dpmm))
	return y + display, nil
}

func (r *Renderer) ensureFamily() error {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return nil
	}
	data := r.opts.Font.Bytes
	if len(data) == 0 && r.opts.Font.Path != "" {
		var err error
		data, err = os.ReadFile(r.opts.Font.Path)
		if err != nil {
			return fmt.Errorf("读取字体 %s 失败: %w", r.opts.Font.Path, err)
		}
	}
	if len(data) == 0 {
		return fmt.Errorf("未配置正文字体")
	}
	family := canvas.NewFontFamily("body")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return fmt.Errorf("加载字体失败: %w", err)
	}
	r.family = family
	return nil
}

func (r *Renderer) face(sizePx float64, col color.RGBA) (*canvas.FontFace, error) {
	if r.family == nil {
		if err := r.ensureFamily(); err != nil {
			return nil, err
		}
	}
	return r.family.Face(sizePx*pxToPt, col, canvas.FontRegular, canvas.FontNormal), nil
}

// wrapLine 以贪心策略折行：优先在空白处断开，单词超宽时按字符拆分。
// 宽度比较使用字体真实度量而不是布局估算，两者的偏差由布局侧的
// 行高冗余吸收。
func wrapLine(face *canvas.FontFace, text string, limit float64) []string {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var (
		lines []string
		b     strings.Builder
		cur   float64
	)
	emit := func() {
		if b.Len() == 0 {
			return
		}
		lines = append(lines, b.String())
		b.Reset()
		cur = 0
	}
	for _, tok := range tokenize(text) {
		w := face.TextWidth(tok)
		if cur > 0 && cur+w > limit {
			emit()
		}
		if b.Len() == 0 && strings.TrimSpace(tok) == "" {
			continue // 行首空白不绘制
		}
		if w > limit {
			for _, ru := range tok {
				s := string(ru)
				rw := face.TextWidth(s)
				if cur > 0 && cur+rw > limit {
					emit()
				}
				b.WriteString(s)
				cur += rw
			}
			continue
		}
		b.WriteString(tok)
		cur += w
	}
	emit()
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// tokenize 将文本切成空白段与非空白段交替的序列。
func tokenize(text string) []string {
	var (
		tokens []string
		b      strings.Builder
		inWS   bool
	)
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for i, r := range text {
		ws := unicode.IsSpace(r)
		if i > 0 && ws != inWS {
			flush()
		}
		inWS = ws
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func hexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return canvas.Hex(s)
}
