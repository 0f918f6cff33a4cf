package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("测试数据解析失败: %v", err)
	}
	return data
}

// TestInterpolateBasic 验证点分路径与数组下标的取值替换。
func TestInterpolateBasic(t *testing.T) {
	data := decode(t, `{"user":{"name":"小明","tags":["甲","乙"]},"count":3}`)
	cases := []struct {
		in, want string
	}{
		{"你好，${user.name}！", "你好，小明！"},
		{"第一个标签：${user.tags[0]}", "第一个标签：甲"},
		{"共 ${count} 条", "共 3 条"},
		{"无占位符", "无占位符"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

// TestInterpolateFallback 验证 ${path|默认值} 兜底与未命中保留原文。
func TestInterpolateFallback(t *testing.T) {
	data := decode(t, `{"a":1}`)
	if got := Interpolate("${missing|无}", data); got != "无" {
		t.Fatalf("兜底值不符: %q", got)
	}
	if got := Interpolate("${missing}", data); got != "${missing}" {
		t.Fatalf("未命中应保留原占位符: %q", got)
	}
	if got := Interpolate("${missing|}", data); got != "" {
		t.Fatalf("空兜底应替换为空串: %q", got)
	}
}

// TestInterpolateNumberFormat 验证 JSON 数字的整数值不带小数尾巴。
func TestInterpolateNumberFormat(t *testing.T) {
	data := decode(t, `{"age":18,"score":93.5,"ok":true,"none":null}`)
	cases := []struct {
		in, want string
	}{
		{"${age}", "18"},
		{"${score}", "93.5"},
		{"${ok}", "true"},
		{"${none}", ""},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

// TestInterpolateNilData 验证无数据时原样返回。
func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${user.name}", nil); got != "${user.name}" {
		t.Fatalf("无数据时不应替换: %q", got)
	}
}
