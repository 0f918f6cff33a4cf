package layout

import (
	"strings"
	"testing"
)

func chunkTexts(units []Unit) []string {
	var out []string
	for _, u := range units {
		if u.Kind == UnitChunk {
			out = append(out, u.Text)
		}
	}
	return out
}

// TestUnitizeParagraphs 验证空行切段：段落之间产生显式分隔单元，首尾不产生。
func TestUnitizeParagraphs(t *testing.T) {
	units := Unitize("第一段。\n\n第二段。", 40)
	if len(units) != 3 {
		t.Fatalf("期望 3 个单元，实际 %d 个: %+v", len(units), units)
	}
	if units[0].Text != "第一段。" || units[2].Text != "第二段。" {
		t.Fatalf("段落内容不符: %+v", units)
	}
	if units[1].Kind != UnitParagraphBreak {
		t.Fatalf("段落之间应为分隔单元，实际 %+v", units[1])
	}
}

// TestUnitizeInnerNewline 验证段内单个换行折算为空格。
func TestUnitizeInnerNewline(t *testing.T) {
	units := Unitize("first\nsecond", 40)
	if len(units) != 1 || units[0].Text != "first second" {
		t.Fatalf("段内换行处理不符: %+v", units)
	}
}

// TestUnitizeSentences 验证按句末标点切块，含全角变体。
func TestUnitizeSentences(t *testing.T) {
	got := chunkTexts(Unitize("一句。两句！三句？", 40))
	want := []string{"一句。", "两句！", "三句？"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("句块切分不符: got=%v want=%v", got, want)
	}
}

// TestUnitizeConsecutiveTerminals 验证连续句末标点归入同一块。
func TestUnitizeConsecutiveTerminals(t *testing.T) {
	got := chunkTexts(Unitize("真的?!还有呢", 40))
	want := []string{"真的?!", "还有呢"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("连续标点切分不符: got=%v want=%v", got, want)
	}
}

// TestUnitizeWordPacking 验证含空格的超宽块按词贪心装行，词不被拆散。
func TestUnitizeWordPacking(t *testing.T) {
	got := chunkTexts(Unitize("alpha beta gamma delta epsilon", 5))
	want := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("词装行不符: got=%v want=%v", got, want)
	}
	for _, piece := range got {
		if EstimateWidth(piece) > 5 {
			t.Fatalf("块 %q 超出宽度预算", piece)
		}
	}
}

// TestUnitizeCJKHardCut 验证无词边界的长块按宽度硬切，切点优先落在
// 超过 40% 位置之后的标点处，且拼接后内容无损。
func TestUnitizeCJKHardCut(t *testing.T) {
	text := "春眠不觉晓，处处闻啼鸟夜来风雨声"
	got := chunkTexts(Unitize(text, 6))

	if got[0] != "春眠不觉晓，" {
		t.Fatalf("首块应在标点后断开，实际 %q", got[0])
	}
	var joined strings.Builder
	for _, piece := range got {
		if EstimateWidth(piece) > 6 {
			t.Fatalf("块 %q 超出宽度预算", piece)
		}
		joined.WriteString(piece)
	}
	if joined.String() != text {
		t.Fatalf("硬切后内容有损: %q", joined.String())
	}
}

// TestUnitizeEmpty 验证空白输入不产生单元。
func TestUnitizeEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", " \n\n\t "} {
		if units := Unitize(text, 20); len(units) != 0 {
			t.Fatalf("输入 %q 期望无单元，实际 %+v", text, units)
		}
	}
}
