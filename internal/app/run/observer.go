package run

import (
	"time"

	"github.com/John-Robertt/imscale/internal/config"
	"github.com/John-Robertt/imscale/internal/domain"
)

// Observer 用于把“运行进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 所有回调都在 Execute 的调用 goroutine 里串行发生（结果由单一循环收敛），
//   实现方不需要为此加锁；若实现自己另起 goroutine（如 ticker），锁由实现方负责。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段（scan/plan/exec）结束/就绪时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnItemDone 在某张图处理完成（无论成败）时调用；done 按完成顺序从 1 递增到 total。
	OnItemDone(done, total int, res domain.ItemResult, dur time.Duration)
	// OnProgress 用于 keepalive（通常由 CLI 自己 ticker 触发；run 层不强制调用）。
	OnProgress(done, total, ok, fail, active int, elapsed time.Duration)
}
