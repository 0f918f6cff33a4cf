package layout

// 宽度估算：不依赖真实字体度量，把字符按窄/宽两档折算成抽象"字符宽度单位"。
// 该启发式是有意为之的近似，常量不可随意改动，
// 否则分页边界会在不同平台间漂移。

const (
	// narrowCharUnits 为单字节范围内字符（拉丁字母、数字、标点）的折算宽度。
	narrowCharUnits = 0.53
	// wideCharUnits 为超出单字节范围的字符（CJK、全角符号等）的折算宽度。
	wideCharUnits = 1.0
)

// EstimateWidth 估算文本的渲染宽度（字符宽度单位）。空串返回 0，永不出错。
func EstimateWidth(text string) float64 {
	var w float64
	for _, r := range text {
		if r > 0xFF {
			w += wideCharUnits
		} else {
			w += narrowCharUnits
		}
	}
	return w
}

// runeWidth 返回单个字符的折算宽度。
func runeWidth(r rune) float64 {
	if r > 0xFF {
		return wideCharUnits
	}
	return narrowCharUnits
}
