package scan

import (
	"os"
	"path/filepath"

	"github.com/John-Robertt/imscale/internal/domain"
)

// ScanImages 扫描 dir 下一层的图片文件（不递归子目录）。
//
// 规则（硬约束）：
// - 只看扩展名，且区分大小写：.jpg/.png/.jpeg 之外一律不是候选（".JPG" 不算）
// - 只接受普通文件：目录/符号链接等即使名字像图片也不进入候选
// - 只做 stat（DirEntry.Info），不读文件内容
//
// 返回值 listed 是目录内条目总数（含被过滤掉的），用于 report 的 scan 统计。
// os.ReadDir 已按文件名排序，扫描结果天然稳定。
func ScanImages(dir string) (files []domain.ImageFile, listed int, err error) {
	dir = filepath.Clean(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}

	files = make([]domain.ImageFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		if !isImageExt(ext) {
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, 0, err
		}

		files = append(files, domain.ImageFile{
			AbsPath: filepath.Join(dir, name),
			Name:    name,
			Ext:     ext,
			Size:    info.Size(),
		})
	}

	return files, len(entries), nil
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".png", ".jpeg":
		return true
	default:
		return false
	}
}
