package layout

// 该文件定义分页结果的数据模型，供分页计算、渲染与调试 JSON 共用。

// Kind 标记页面条目的类型。
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Item 表示分配到某一页上的一个条目：一段完整的文本块，或一张图片（整图或纵向切片）。
// ClipTop/ClipHeight 仅在图片跨页切片时出现；二者同时缺省表示整图显示。
type Item struct {
	Kind Kind `json:"kind"`
	// Text 是合并后的文本内容，段落之间以 "\n" 分隔。
	Text string `json:"text,omitempty"`
	// ImageIndex 为图片在图片列表中的下标（0 起），仅图片条目有效。
	ImageIndex int `json:"imageIndex"`
	// FullHeight 为图片在内容宽度下的完整显示高度（px）。
	FullHeight int `json:"fullHeight,omitempty"`
	// ClipTop/ClipHeight 为切片在完整显示高度中的纵向偏移与范围（px）。
	ClipTop    int `json:"clipTop,omitempty"`
	ClipHeight int `json:"clipHeight,omitempty"`
}

// Sliced 报告该图片条目是否为跨页切片（而非整图）。
func (it Item) Sliced() bool {
	return it.Kind == KindImage && it.ClipHeight > 0
}

// DisplayHeight 返回条目中图片实际占用的显示高度：切片高度或整图高度。
func (it Item) DisplayHeight() int {
	if it.Sliced() {
		return it.ClipHeight
	}
	return it.FullHeight
}

// Page 记录一页上按阅读顺序排列的条目，以及估算出的内容高度（px，含固定装饰区）。
type Page struct {
	Items  []Item `json:"items"`
	Height int    `json:"height"`
}

// Dimensions 为图片的自然像素尺寸。宽或高为 0 表示尺寸尚未解码完成。
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Constraints 描述一次分页所使用的页面约束。
// 约束随显示比例、预览宽度或语言变化而整体重新计算；分页引擎只读取最新值，从不缓存。
type Constraints struct {
	// ContentWidth 为内容区域宽度（px），图片按此宽度等比缩放。
	ContentWidth int `json:"contentWidth"`
	// MaxCharsPerLine 为每行的字符宽度预算（单位：字符宽度单位，全角字符计 1）。
	MaxCharsPerLine float64 `json:"maxCharsPerLine"`
	// MaxPageHeight 为单页内容高度上限（px，含 FixedChrome）。
	MaxPageHeight int `json:"maxPageHeight"`
	// FixedChrome 为每页非内容装饰（页眉/页脚/边距）占用的固定高度（px），
	// 其具体构成由外部渲染器定义，分页引擎只把它计入高度预算。
	FixedChrome int `json:"fixedChrome"`
}

// normalized 补全零值约束，保证分页总能给出良构结果。
func (c Constraints) normalized() Constraints {
	if c.ContentWidth <= 0 {
		c.ContentWidth = defaultPreviewWidth - 2*contentPadding
	}
	if c.MaxCharsPerLine <= 0 {
		c.MaxCharsPerLine = float64(c.ContentWidth) / charUnitPx
	}
	if c.MaxPageHeight <= 0 {
		c.MaxPageHeight = c.ContentWidth * 4 / 3
	}
	if c.FixedChrome < 0 {
		c.FixedChrome = 0
	}
	return c
}

// Result 保存一次分页运行的页面与所用约束。
// 任何输入（内容、图片、尺寸、约束、语言）变化后，调用方必须丢弃旧结果并整体重新计算。
type Result struct {
	Pages       []Page      `json:"pages"`
	Constraints Constraints `json:"constraints"`
}
