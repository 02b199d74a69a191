package imgx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器（解码按内容识别；扩展名与内容不一致的图片也尽量解码）

	"github.com/John-Robertt/imscale/internal/infra/fsx"
)

// SourceMissingError 表示执行时源路径已经不是普通文件（枚举到执行之间可能被删除/替换）。
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("源文件不存在或不是普通文件：%q", e.Path)
}

// DecodeError 表示源文件无法作为图片读取（损坏、空文件、内容不被任何解码器识别）。
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("解码失败：%q：%v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError 表示无法产出目标文件（缩放尺寸退化、扩展名不支持、编码或落盘失败）。
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("编码/写入失败：%q：%v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ResizeFile 把 src 按长边 largerEdge 等比缩放后写入 dst，返回输出尺寸。
//
// 约束：
// - 错误只会是 *SourceMissingError / *DecodeError / *EncodeError 之一，
//   由调用方映射为 report 的 error_code；本函数不向外抛 panic
// - 输出格式由 dst 的扩展名决定（输出与源同名，所以与源扩展名一致）
// - 落盘走“临时文件 + rename”的原子写：失败不会留下半截目标文件
// - 解码得到的位图只在本次调用内使用，调用间不共享
func ResizeFile(src, dst string, largerEdge int) (int, int, error) {
	fi, err := os.Stat(src)
	if err != nil || !fi.Mode().IsRegular() {
		return 0, 0, &SourceMissingError{Path: src}
	}

	f, err := os.Open(src)
	if err != nil {
		return 0, 0, &DecodeError{Path: src, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return 0, 0, &DecodeError{Path: src, Err: err}
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0, &DecodeError{Path: src, Err: fmt.Errorf("图片尺寸无效：%dx%d", b.Dx(), b.Dy())}
	}

	w, h := scaleSize(b.Dx(), b.Dy(), largerEdge)
	if w < 1 || h < 1 {
		// larger_edge 非正或比例极端时会算出退化尺寸；在写入前拦下，归为单张失败。
		return 0, 0, &EncodeError{Path: dst, Err: fmt.Errorf("缩放后尺寸无效：%dx%d（larger_edge=%d）", w, h, largerEdge)}
	}

	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return 0, 0, &EncodeError{Path: dst, Err: err}
	}

	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return 0, 0, &EncodeError{Path: dst, Err: err}
	}

	if err := fsx.WriteFileAtomicReplace(filepath.Dir(dst), filepath.Base(dst), buf.Bytes()); err != nil {
		return 0, 0, &EncodeError{Path: dst, Err: err}
	}

	return w, h, nil
}

// scaleSize 计算等比缩放后的尺寸：长边对齐 edge，另一边按比例取整。
// 取整是向零截断，不做四舍五入；正方形走 else 分支（以高度为基准）。
func scaleSize(w, h, edge int) (int, int) {
	ratio := float64(w) / float64(h)
	if w > h {
		return edge, int(float64(edge) / ratio)
	}
	return int(float64(edge) * ratio), edge
}
