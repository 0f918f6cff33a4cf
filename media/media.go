package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/tuwen/layout"
)

// 图片接入：读取、嗅探并解码用户提供的图片文件，为分页引擎提供自然尺寸，
// 为渲染器提供解码后的像素数据。解码失败被降级为"尺寸未知"而非错误——
// 引擎对未知尺寸有保守默认值，渲染阶段再对缺失的像素另行兜底。

// maxSourceWidth 为渲染前允许的最大源图宽度（px），更宽的源图先等比缩小，
// 控制栅格化内存；记录的尺寸是缩小后的尺寸，保证分页与渲染一致。
const maxSourceWidth = 2048

// Asset 是一张已接入的图片。Image 为 nil 表示解码失败（仅能按默认尺寸分页）。
type Asset struct {
	Path   string
	Name   string
	Image  image.Image
	Width  int
	Height int
}

// Load 按给定顺序读入图片文件。文件不可读或不是图片属于输入错误，
// 逐个累积后一并返回（可读文件仍会被接入）；解码失败只降级并告警。
func Load(paths []string, log *zap.Logger) ([]Asset, error) {
	assets := make([]Asset, 0, len(paths))
	var errs error

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("读取图片 %s 失败: %w", p, err))
			continue
		}
		if !filetype.IsImage(data) {
			errs = multierr.Append(errs, fmt.Errorf("文件 %s 不是支持的图片格式", p))
			continue
		}

		asset := Asset{Path: p, Name: filepath.Base(p)}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			log.Warn("图片解码失败，按未知尺寸处理", zap.String("path", p), zap.Error(err))
			assets = append(assets, asset)
			continue
		}

		bounds := img.Bounds()
		if bounds.Dx() > maxSourceWidth {
			img = imaging.Resize(img, maxSourceWidth, 0, imaging.Lanczos)
			bounds = img.Bounds()
			log.Debug("源图过宽，已缩小",
				zap.String("path", p), zap.String("format", format),
				zap.Int("width", bounds.Dx()), zap.Int("height", bounds.Dy()))
		}
		asset.Image = img
		asset.Width = bounds.Dx()
		asset.Height = bounds.Dy()
		assets = append(assets, asset)
	}
	return assets, errs
}

// Dims 汇出分页引擎需要的尺寸映射；尺寸未知的图片不产生条目，
// 由引擎的保守默认高度接管。
func Dims(assets []Asset) map[int]layout.Dimensions {
	dims := make(map[int]layout.Dimensions, len(assets))
	for i, a := range assets {
		if a.Width > 0 && a.Height > 0 {
			dims[i] = layout.Dimensions{Width: a.Width, Height: a.Height}
		}
	}
	return dims
}
