package segment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// 内容分段：把原始内容串扫描成按文档顺序排列的文本段与图片引用段。
// 行内标记语法为 "[imageN]"（N 为 1 起的十进制下标），大小写敏感、无转义机制。
// 越界的标记不作错误处理，原样保留为普通文本——这是对过期引用的有意优雅降级。

var (
	contentLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Marker", Pattern: `\[image[0-9]+\]`},
		{Name: "Text", Pattern: `[^\[]+`},
		{Name: "LBracket", Pattern: `\[`},
	})

	markerTokenType = mustTokenType("Marker")
)

// Kind 标记段类型。
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Segment 是分段输出：文本段携带文本，图片段携带图片下标（0 起）。
// 段一经产生不可变；内容或图片列表变化后整体重新生成。
type Segment struct {
	Kind Kind `json:"kind"`
	// Text 为文本段内容，保留原始空白。
	Text string `json:"text,omitempty"`
	// ImageIndex 为图片在图片列表中的下标（0 起），仅图片段有效。
	ImageIndex int `json:"imageIndex"`
}

// Parse 把内容扫描成有序段序列。标记仅在 1 <= N <= imageCount 时解析为图片段，
// 否则连同周围文字并入文本段。空文本段被省略。
func Parse(content string, imageCount int) []Segment {
	var segs []Segment
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{Kind: KindText, Text: text.String()})
			text.Reset()
		}
	}

	scanMarkers(content, func(raw string, n int) {
		if n >= 1 && n <= imageCount {
			flushText()
			segs = append(segs, Segment{Kind: KindImage, ImageIndex: n - 1})
			return
		}
		text.WriteString(raw)
	}, func(raw string) {
		text.WriteString(raw)
	})
	flushText()
	return segs
}

// Renumber 重排标记与图片列表使二者互相一致：被至少一个有效标记引用的图片
// 按首次出现顺序保留，其所有标记改写为连续的 1 起新编号；越界标记保持原样。
// 幂等：对同一输入连续运行两次，第二次不产生任何变化。
func Renumber[T any](content string, images []T) (string, []T) {
	remap := make(map[int]int)
	var order []int
	var out strings.Builder

	scanMarkers(content, func(raw string, n int) {
		if n < 1 || n > len(images) {
			out.WriteString(raw)
			return
		}
		next, ok := remap[n]
		if !ok {
			order = append(order, n)
			next = len(order)
			remap[n] = next
		}
		fmt.Fprintf(&out, "[image%d]", next)
	}, func(raw string) {
		out.WriteString(raw)
	})

	kept := make([]T, 0, len(order))
	for _, old := range order {
		kept = append(kept, images[old-1])
	}
	return out.String(), kept
}

// scanMarkers 用词法器扫描内容，把标记与普通文本分别交给两个回调。
// 词法规则是全集覆盖的，扫描本身不会失败；万一失败则整体按文本处理兜底。
func scanMarkers(content string, onMarker func(raw string, n int), onText func(raw string)) {
	lex, err := contentLexer.Lex("", strings.NewReader(content))
	if err != nil {
		onText(content)
		return
	}
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return
		}
		if tok.Type == markerTokenType {
			if n, ok := markerIndex(tok.Value); ok {
				onMarker(tok.Value, n)
				continue
			}
		}
		onText(tok.Value)
	}
}

// markerIndex 从 "[imageN]" 里取出 N。
func markerIndex(raw string) (int, bool) {
	num := strings.TrimSuffix(strings.TrimPrefix(raw, "[image"), "]")
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return n, true
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := contentLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
