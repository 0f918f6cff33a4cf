package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/tuwen/segment"
)

// 分页器：对分段、单元化后的内容流做单次贪心前向扫描，把文本单元与图片
// 装入高度受限的页面。纯函数，无 I/O、无共享状态，可在输入每次变化时安全重算。
// 任何输入都不会导致失败：至少返回一页（空内容得到一个空页）。

// Paginate 对原始内容做分段、单元化与分页，返回有序页面列表。
// imageCount 为当前图片列表长度；dims 以图片下标（0 起）索引自然尺寸，
// 缺失条目使用保守默认高度。
func Paginate(content string, imageCount int, dims map[int]Dimensions, c Constraints, lang language.Tag) *Result {
	return PaginateSegments(segment.Parse(content, imageCount), dims, c, lang)
}

// PaginateSegments 对已分段的内容执行分页。
func PaginateSegments(segs []segment.Segment, dims map[int]Dimensions, c Constraints, lang language.Tag) *Result {
	est := NewEstimator(c, lang)
	pc := &pageCollector{est: est}

	for _, sg := range segs {
		switch sg.Kind {
		case segment.KindText:
			for _, u := range Unitize(sg.Text, est.Constraints.MaxCharsPerLine) {
				pc.placeUnit(u)
			}
		case segment.KindImage:
			pc.placeImage(sg.ImageIndex, dims[sg.ImageIndex])
		}
	}
	pc.finish()

	return &Result{Pages: pc.pages, Constraints: est.Constraints}
}

// pageCollector 收集当前页条目并在超出高度预算时换页。
// 与闭包捕获的可变游标不同，这里的状态只在单次分页运行内存在，运行结束即丢弃。
type pageCollector struct {
	est   Estimator
	pages []Page
	items []Item
	// pendingBreak 记录待落实的段落分隔：仅当下一个文本单元仍并入当前
	// 尾部文本条目时以 "\n" 落实；跨条目或跨页时新条目天然成段，无需分隔符。
	pendingBreak bool
}

func (pc *pageCollector) hasContent() bool { return len(pc.items) > 0 }

// flush 把当前页推入输出并开始新的空页。
func (pc *pageCollector) flush() {
	pc.pages = append(pc.pages, Page{Items: pc.items, Height: pc.est.PageContentHeight(pc.items)})
	pc.items = nil
	pc.pendingBreak = false
}

// finish 在内容流耗尽后收尾：残留条目成页；完全无输出时补一个空页。
func (pc *pageCollector) finish() {
	if pc.hasContent() || len(pc.pages) == 0 {
		pc.flush()
	}
}

// placeUnit 放置一个文本单元。段落分隔标记只登记，不立即产生条目。
func (pc *pageCollector) placeUnit(u Unit) {
	if u.Kind == UnitParagraphBreak {
		if n := len(pc.items); n > 0 && pc.items[n-1].Kind == KindText {
			pc.pendingBreak = true
		}
		return
	}
	pc.placeChunk(u.Text, true)
}

// placeChunk 尝试把文本块并入当前页；超高且页非空则换页重试；
// 空页仍放不下时按半行宽预算强制细分，保证永远可以推进。
func (pc *pageCollector) placeChunk(text string, allowSubdivide bool) {
	cand := appendChunk(pc.items, text, pc.pendingBreak)
	if pc.est.PageContentHeight(cand) <= pc.est.Constraints.MaxPageHeight {
		pc.items = cand
		pc.pendingBreak = false
		return
	}
	if pc.hasContent() {
		pc.flush()
		pc.placeChunk(text, allowSubdivide)
		return
	}
	if allowSubdivide {
		sub := Unitize(text, pc.est.Constraints.MaxCharsPerLine/2)
		if len(sub) > 1 {
			for _, su := range sub {
				if su.Kind == UnitChunk {
					pc.placeChunk(su.Text, false)
				}
			}
			return
		}
	}
	// 单元已不可再分：强制放置，允许该页超出预算。
	pc.items = cand
	pc.pendingBreak = false
}

// placeImage 放置一张图片：能整图放下则整图；否则按当前页剩余空间反复切片，
// 切片在完整显示高度上精确铺满 [0, fullHeight)，无缝隙无重叠。
func (pc *pageCollector) placeImage(idx int, dims Dimensions) {
	full := pc.est.ImageFullHeight(dims)
	whole := Item{Kind: KindImage, ImageIndex: idx, FullHeight: full}

	cand := append(append([]Item(nil), pc.items...), whole)
	if pc.est.PageContentHeight(cand) <= pc.est.Constraints.MaxPageHeight {
		pc.items = cand
		pc.pendingBreak = false
		return
	}

	top := 0
	for top < full {
		avail := pc.available()
		if avail <= 0 {
			if pc.hasContent() {
				pc.flush()
				continue
			}
			// 退化约束（装饰区不小于页高）：整块放置，允许超高。
			avail = full - top
		}
		take := full - top
		if take > avail {
			take = avail
		}
		it := Item{Kind: KindImage, ImageIndex: idx, FullHeight: full}
		if !(top == 0 && take == full) {
			it.ClipTop = top
			it.ClipHeight = take
		}
		pc.items = append(pc.items, it)
		pc.pendingBreak = false
		top += take
		if top < full {
			pc.flush()
		}
	}
}

// available 返回当前页还能容纳的内容高度，已扣除追加条目将引入的间距。
func (pc *pageCollector) available() int {
	base := pc.est.PageContentHeight(pc.items)
	gap := 0
	if n := len(pc.items); n > 0 {
		if pc.items[n-1].Kind == KindImage {
			gap = MediaGap
		} else {
			gap = ParagraphGap
		}
	}
	return pc.est.Constraints.MaxPageHeight - base - gap
}

// appendChunk 把文本块并入条目列表的副本：尾部已是文本条目则合并
// （分隔符为空格，待落实段落分隔时为换行），否则新建文本条目。
func appendChunk(items []Item, text string, pendingBreak bool) []Item {
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	if n := len(out); n > 0 && out[n-1].Kind == KindText {
		sep := " "
		if pendingBreak {
			sep = "\n"
		}
		out[n-1].Text = out[n-1].Text + sep + text
		return out
	}
	return append(out, Item{Kind: KindText, Text: text})
}
