package layout

import (
	"math"
	"strings"

	"golang.org/x/text/language"
)

// 高度估算：在不实际渲染的前提下，计算文本块、图片与整页条目列表的估算高度。
// 行高与段间距为固定像素常量，与语言无关；语言参数仅为将来按语言调整度量预留。

const (
	// LineHeight 为一行文本的估算高度（px）。
	LineHeight = 28
	// ParagraphGap 为段落之间以及异类条目之间的间距（px）。
	ParagraphGap = 14
	// MediaGap 为相邻图片条目之间较小的间距（px）。
	MediaGap = 8
	// DefaultImageHeight 为尺寸尚未解码的图片采用的保守默认高度（px）。
	// 不能为 0（会让后续内容提前上移），也不能过大（会把内容错误挤到下一页）；
	// 真实尺寸到达后由调用方整体重新分页修正。
	DefaultImageHeight = 180
)

// Estimator 在给定约束与显示语言下估算高度。所有方法均为纯函数。
type Estimator struct {
	Constraints Constraints
	Lang        language.Tag
}

// NewEstimator 构造估算器。约束中的零值会被补全为默认值。
func NewEstimator(c Constraints, lang language.Tag) Estimator {
	return Estimator{Constraints: c.normalized(), Lang: lang}
}

// TextBlockHeight 估算一个文本块的高度：按显式换行拆段，
// 每段行数 = ceil(估算宽度 / 每行字符预算)，至少 1 行；
// 总高 = 行数合计 × 行高 + (段数-1) × 段间距。
func (e Estimator) TextBlockHeight(text string) int {
	paras := strings.Split(text, "\n")
	lines := 0
	for _, p := range paras {
		n := int(math.Ceil(EstimateWidth(p) / e.Constraints.MaxCharsPerLine))
		if n < 1 {
			n = 1
		}
		lines += n
	}
	return lines*LineHeight + (len(paras)-1)*ParagraphGap
}

// ImageFullHeight 计算图片在内容宽度下等比缩放后的完整显示高度。
// 尺寸未知时返回保守默认值，避免未解码的图片破坏分页决策。
func (e Estimator) ImageFullHeight(dims Dimensions) int {
	if dims.Width <= 0 || dims.Height <= 0 {
		return DefaultImageHeight
	}
	return int(math.Ceil(float64(e.Constraints.ContentWidth) * float64(dims.Height) / float64(dims.Width)))
}

// PageContentHeight 估算一页条目列表的总高度：固定装饰区 + 各条目高度，
// 相邻图片之间插入 MediaGap，其余相邻条目之间插入 ParagraphGap。
func (e Estimator) PageContentHeight(items []Item) int {
	h := e.Constraints.FixedChrome
	for i, it := range items {
		if i > 0 {
			if it.Kind == KindImage && items[i-1].Kind == KindImage {
				h += MediaGap
			} else {
				h += ParagraphGap
			}
		}
		switch it.Kind {
		case KindText:
			h += e.TextBlockHeight(it.Text)
		case KindImage:
			h += it.DisplayHeight()
		}
	}
	return h
}
