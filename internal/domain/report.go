package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusResized = "resized"
	StatusFailed  = "failed"
)

const (
	ErrCodeSourceMissing = "source_missing"
	ErrCodeDecodeFailed  = "decode_failed"
	ErrCodeEncodeFailed  = "encode_failed"
	ErrCodeDirNotFound   = "dir_not_found"
	ErrCodeIOFailed      = "io_failed"
)

// RunReport 是对外稳定输出（stdout JSON）的结构。
type RunReport struct {
	SrcDir     string `json:"src_dir"`
	DstDir     string `json:"dst_dir"`
	LargerEdge int    `json:"larger_edge"`

	// Aborted 表示运行在进入执行阶段前就被致命错误终止（例如源目录不存在）。
	// 单张图片的失败永远不会置位该字段。
	Aborted bool `json:"aborted"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Scan    ScanSummary   `json:"scan"`
	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

// ScanSummary 统计枚举阶段：listed 是源目录一层内的条目总数（含被过滤掉的），
// matched 是扩展名命中的普通文件数，skipped 是目标已存在而跳过的数量。
type ScanSummary struct {
	Listed  int `json:"listed"`
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
}

type ReportSummary struct {
	Total int `json:"total"`
	OK    int `json:"ok"`
	Fail  int `json:"fail"`
}

type ItemResult struct {
	Name string `json:"name"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	// 输出尺寸；失败时为 0。
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 name 字典序；name=="" 的合成条目排在最后
// 3) summary 由 items 计算得出（total == ok + fail 由构造保证）
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].Name
		b := r.Items[j].Name
		if a == "" && b == "" {
			return false
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusResized:
			s.OK++
		case StatusFailed:
			s.Fail++
		}
	}
	s.Total = s.OK + s.Fail
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
