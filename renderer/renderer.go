package renderer

import (
	"github.com/ByLCY/tuwen/layout"
	"github.com/ByLCY/tuwen/media"
)

// Renderer 将分页结果输出为最终图像，每页一张（例如 PNG 字节切片）。
// 渲染只消费引擎的输出，绝不反过来影响分页决策。
type Renderer interface {
	Render(res *layout.Result, assets []media.Asset) ([][]byte, error)
}
