package run

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/John-Robertt/imscale/internal/app/planner"
	"github.com/John-Robertt/imscale/internal/config"
	"github.com/John-Robertt/imscale/internal/domain"
	"github.com/John-Robertt/imscale/internal/infra/imgx"
	"github.com/John-Robertt/imscale/internal/scan"
)

// Execute 执行一次批量缩放，并返回对外稳定的 RunReport。
// 该函数尽量把错误“降级”为 item 级失败（单张失败不影响其他张）；
// 只有整体性错误（源目录不可用、目标目录无法创建）才置 Aborted。
func Execute(eff config.EffectiveConfig) domain.RunReport {
	return ExecuteWithObserver(eff, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(eff config.EffectiveConfig, obs Observer) domain.RunReport {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		SrcDir:     eff.SrcDir,
		DstDir:     eff.DstDir,
		LargerEdge: eff.LargerEdge,
		StartedAt:  started,
		Items:      make([]domain.ItemResult, 0, 128),
	}

	scanStarted := time.Now()
	files, listed, err := scan.ScanImages(eff.SrcDir)
	if err != nil {
		rr.Aborted = true
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeDirNotFound, fmt.Sprintf("源目录不可用：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	rr.Scan.Listed = listed
	rr.Scan.Matched = len(files)
	scanDur := time.Since(scanStarted)

	planStarted := time.Now()
	items, skipped, err := planner.BuildWorkItems(files, eff.DstDir)
	if err != nil {
		rr.Aborted = true
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("创建目标目录失败：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	rr.Scan.Skipped = skipped
	planDur := time.Since(planStarted)

	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{
			"listed":  listed,
			"matched": len(files),
		}, scanDur)
		obs.OnPhaseDone("plan", map[string]any{
			"items":   len(items),
			"skipped": skipped,
		}, planDur)
	}

	if len(items) == 0 {
		// 没有需要处理的图片：不进入执行阶段，视为整体成功。
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	workers := eff.Concurrency
	if workers < 1 {
		workers = 1
	}

	if obs != nil {
		obs.OnPhaseDone("exec", map[string]any{
			"workers":     workers,
			"total_items": len(items),
		}, 0)
	}

	type execResult struct {
		res domain.ItemResult
		dur time.Duration
	}

	// jobs 无缓冲：在途任务数不超过 worker 数，避免一次性把整个计划塞进内存队列。
	jobs := make(chan domain.WorkItem)
	results := make(chan execResult, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobs {
				oneStarted := time.Now()
				r := execOne(eff, it)
				results <- execResult{
					res: r,
					dur: time.Since(oneStarted),
				}
			}
		}()
	}

	go func() {
		for _, it := range items {
			jobs <- it
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// 单一收敛循环：Items 追加与 OnItemDone 都发生在这里，天然串行。
	done := 0
	for er := range results {
		done++
		rr.Items = append(rr.Items, er.res)
		if obs != nil {
			obs.OnItemDone(done, len(items), er.res, er.dur)
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

// execOne 处理一张图：失败不外溢，全部落为该条 item 的状态。
func execOne(eff config.EffectiveConfig, it domain.WorkItem) domain.ItemResult {
	item := domain.ItemResult{
		Name:   it.Name,
		Status: domain.StatusResized, // 失败时覆盖
	}

	w, h, err := imgx.ResizeFile(it.SrcAbs, it.DstAbs, eff.LargerEdge)
	if err != nil {
		fillResizeError(&item, err)
		return item
	}

	item.Width = w
	item.Height = h
	return item
}

func fillResizeError(item *domain.ItemResult, err error) {
	item.Status = domain.StatusFailed
	item.ErrorMsg = err.Error()

	var sm *imgx.SourceMissingError
	var de *imgx.DecodeError
	var ee *imgx.EncodeError
	switch {
	case errors.As(err, &sm):
		item.ErrorCode = domain.ErrCodeSourceMissing
	case errors.As(err, &de):
		item.ErrorCode = domain.ErrCodeDecodeFailed
	case errors.As(err, &ee):
		item.ErrorCode = domain.ErrCodeEncodeFailed
	default:
		item.ErrorCode = domain.ErrCodeIOFailed
	}
}

// syntheticFailed 生成一条不对应任何输入文件的失败 item（整体性错误用）。
func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		Name:      "",
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
	}
}
