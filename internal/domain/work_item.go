package domain

// WorkItem 是一次“源文件 -> 目标文件”的最小处理单元。
// 由 planner 生成后不可变；恰好被执行一次，没有更多生命周期。
type WorkItem struct {
	SrcAbs string
	DstAbs string
	Name   string // 源文件名（含扩展名）；输出与源同名
}
