package planner

import (
	"os"
	"path/filepath"

	"github.com/John-Robertt/imscale/internal/domain"
)

// BuildWorkItems 基于扫描结果生成待处理的 WorkItem 列表（不做任何图片处理）。
//
// 语义：
// - 先确保 dstDir 存在（含中间目录）；创建失败是致命错误，由上层终止运行
// - 目标路径已存在的文件跳过：幂等重跑不重做已完成的工作。
//   只看存在性，不校验内容；目标处无论是什么类型的条目，存在即跳过
// - len(items) + skipped == len(files)
func BuildWorkItems(files []domain.ImageFile, dstDir string) (items []domain.WorkItem, skipped int, err error) {
	dstDir = filepath.Clean(dstDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, 0, err
	}

	items = make([]domain.WorkItem, 0, len(files))
	for _, f := range files {
		dst := filepath.Join(dstDir, f.Name)
		if _, statErr := os.Stat(dst); statErr == nil {
			skipped++
			continue
		}
		items = append(items, domain.WorkItem{
			SrcAbs: f.AbsPath,
			DstAbs: dst,
			Name:   f.Name,
		})
	}
	return items, skipped, nil
}
