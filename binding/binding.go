package binding

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 内容插值：在分段/分页之前，把正文里的 ${path.to.value} 占位符替换为
// 档案数据（解码后的 JSON）里的值。支持 ${path|默认值} 形式的兜底写法。
// 路径无法解析且无默认值时，保留原占位符不动。

var exprPattern = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Interpolate 替换文本中的全部占位符。data 为空时原样返回。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, strings.Split(path, ".")); ok {
			return format(val)
		}
		if strings.Contains(match, "|") {
			return groups[2]
		}
		return match
	})
}

// lookup 沿点分路径逐级下探，路径段支持 name 与 name[idx] 两种形式。
func lookup(data any, path []string) (any, bool) {
	current := data
	for _, seg := range path {
		name, indexes, ok := parseSegment(seg)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			current, ok = m[name]
			if !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment 拆出路径段的名字与方括号下标序列。
func parseSegment(seg string) (string, []int, bool) {
	name := seg
	var indexes []int
	if i := strings.IndexByte(seg, '['); i != -1 {
		name = seg[:i]
		rest := seg[i:]
		for strings.HasPrefix(rest, "[") {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return "", nil, false
			}
			indexes = append(indexes, idx)
			rest = rest[end+1:]
		}
		if rest != "" {
			return "", nil, false
		}
	}
	return name, indexes, true
}

// format 把取到的值转成正文文本。JSON 数字统一是 float64，
// 整数值去掉无意义的小数部分（年龄、计数等写进卡片时不应带 ".0"）。
func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
