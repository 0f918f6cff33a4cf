package layout

import (
	"regexp"
	"strings"
	"unicode"
)

// 文本单元化：把一段原始文本拆成可增量装箱的"单元"序列。
// 单元要么是一个不超过行宽预算的文本块，要么是显式的段落分隔标记。

// UnitKind 标记单元类型。
type UnitKind int

const (
	// UnitChunk 为可断行的文本块。
	UnitChunk UnitKind = iota
	// UnitParagraphBreak 为段落分隔标记，只出现在相邻段落之间。
	UnitParagraphBreak
)

// Unit 是单元化输出的最小单位。
type Unit struct {
	Kind UnitKind
	Text string
}

var (
	// 空行（可含空白）作为段落边界。
	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n+`)
	// 段落内部残留的单个换行折算为空格。
	innerNewlinePattern = regexp.MustCompile(`[ \t]*\n[ \t]*`)
)

// Unitize 把文本拆成有序单元序列，每个文本单元的估算宽度不超过 maxUnitWidth。
// 算法：统一换行符 → 按空行切段（空段丢弃）→ 段内按句末标点切块 →
// 过宽的块再按词或宽度预算细分。段落之间插入显式分隔单元，首尾不插。
func Unitize(text string, maxUnitWidth float64) []Unit {
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	norm = strings.TrimSpace(norm)
	if norm == "" {
		return nil
	}

	var units []Unit
	for _, para := range blankLinePattern.Split(norm, -1) {
		para = innerNewlinePattern.ReplaceAllString(para, " ")
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(units) > 0 {
			units = append(units, Unit{Kind: UnitParagraphBreak})
		}
		for _, chunk := range splitSentences(para) {
			if EstimateWidth(chunk) <= maxUnitWidth {
				units = append(units, Unit{Kind: UnitChunk, Text: chunk})
				continue
			}
			for _, piece := range splitWideChunk(chunk, maxUnitWidth) {
				units = append(units, Unit{Kind: UnitChunk, Text: piece})
			}
		}
	}
	return units
}

// isSentenceTerminal 判断句末标点（含全角变体）。
func isSentenceTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// splitSentences 按句末标点把段落切成句块；连续标点（如 "?!"、"……"后的句号串）归入同一块，
// 没有任何句末标点的余下部分整体算一块。
func splitSentences(para string) []string {
	var out []string
	runes := []rune(para)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceTerminal(runes[i]) {
			continue
		}
		for i+1 < len(runes) && isSentenceTerminal(runes[i+1]) {
			i++
		}
		if chunk := strings.TrimSpace(string(runes[start : i+1])); chunk != "" {
			out = append(out, chunk)
		}
		start = i + 1
	}
	if start < len(runes) {
		if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

// splitWideChunk 细分超出宽度预算的句块。
// 含空格的块按词贪心装行；不含词边界的块（如 CJK 长句）按宽度预算硬切，
// 切点优先回退到超过切片 40% 位置之后最近的标点，避免产生过短的孤尾。
func splitWideChunk(chunk string, maxUnitWidth float64) []string {
	if maxUnitWidth <= 0 {
		return []string{chunk}
	}
	if strings.ContainsRune(chunk, ' ') {
		return packWords(strings.Fields(chunk), maxUnitWidth)
	}
	return cutByWidth(chunk, maxUnitWidth, true)
}

// packWords 把词贪心装入不超过预算的行；单个超宽的词按字符偏移硬切。
func packWords(words []string, maxUnitWidth float64) []string {
	var out []string
	var line strings.Builder
	lineWidth := 0.0

	flush := func() {
		if line.Len() > 0 {
			out = append(out, line.String())
			line.Reset()
			lineWidth = 0
		}
	}

	for _, word := range words {
		w := EstimateWidth(word)
		if w > maxUnitWidth {
			flush()
			out = append(out, cutByWidth(word, maxUnitWidth, false)...)
			continue
		}
		sep := 0.0
		if line.Len() > 0 {
			sep = narrowCharUnits
		}
		if lineWidth+sep+w > maxUnitWidth {
			flush()
			sep = 0
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
		lineWidth += sep + w
	}
	flush()
	return out
}

// cutByWidth 按宽度预算逐段硬切文本。preferPunct 开启时，
// 若切片中超过 40%（按字符数）之后存在标点，则把切点移到最近的标点之后。
func cutByWidth(text string, maxUnitWidth float64, preferPunct bool) []string {
	var out []string
	rest := []rune(text)
	for len(rest) > 0 {
		n := takeByWidth(rest, maxUnitWidth)
		if n >= len(rest) {
			out = append(out, string(rest))
			break
		}
		if preferPunct {
			if k := trailingPunctCut(rest[:n]); k > 0 {
				n = k
			}
		}
		out = append(out, string(rest[:n]))
		rest = rest[n:]
	}
	return out
}

// takeByWidth 返回在宽度预算内能容纳的字符数，至少取 1 个字符保证推进。
func takeByWidth(runes []rune, maxUnitWidth float64) int {
	width := 0.0
	for i, r := range runes {
		width += runeWidth(r)
		if width > maxUnitWidth {
			if i == 0 {
				return 1
			}
			return i
		}
	}
	return len(runes)
}

// trailingPunctCut 在切片内寻找最后一个标点；若其位置超过切片长度的 40%，
// 返回标点之后的切点，否则返回 0 表示维持原切点。
func trailingPunctCut(slice []rune) int {
	threshold := int(float64(len(slice)) * 0.4)
	for i := len(slice) - 1; i > threshold; i-- {
		if unicode.IsPunct(slice[i]) {
			return i + 1
		}
	}
	return 0
}
