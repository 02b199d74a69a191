package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	// ErrCodeBadArgs 表示命令行参数不合法（例如 larger_edge 不是整数）。
	ErrCodeBadArgs = "args_invalid"
)

const (
	// DefaultLargerEdge 是长边的建议值，只出现在 usage 示例里；CLI 必须显式给出。
	DefaultLargerEdge = 160
	// MaxConcurrency 是并发上限：更高的并发对本地磁盘没有收益，反而占用文件句柄。
	MaxConcurrency = 32
)

// CLIArgs 精确对应 CLI 的三个位置参数（原始字符串，未做任何解析）。
type CLIArgs struct {
	SrcDir     string
	DstDir     string
	LargerEdge string
}

// EffectiveConfig 是解析并规范化后的最终配置（实现层直接消费，不再做二次默认/校验）。
type EffectiveConfig struct {
	SrcDir string
	DstDir string

	LargerEdge int

	// Concurrency 是 worker 数量，范围 [1, MaxConcurrency]；CLI 不暴露该参数。
	Concurrency int
}

// Error 是参数阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// DefaultConcurrency 返回默认 worker 数：CPU 数 + 4，上限 MaxConcurrency。
// 解码/编码吃 CPU，文件读写等 I/O；少量超配可以掩盖 I/O 等待。
func DefaultConcurrency() int {
	n := runtime.NumCPU() + 4
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

// LoadEffective 把三个位置参数解析/规范化为最终配置。
//
// 规则（固定）：
// - 两个目录一律转为 clean + absolute（相对路径以 cwd 为基准）
// - larger_edge 必须能解析为整数；不做范围校验（非正值会进入缩放计算，由单张失败兜住）
// - 并发不暴露 CLI 参数：固定取 DefaultConcurrency()
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeBadArgs, Err: err}
	}

	if strings.TrimSpace(cli.SrcDir) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeBadArgs, Err: fmt.Errorf("src_dir 不能为空")}
	}
	if strings.TrimSpace(cli.DstDir) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeBadArgs, Err: fmt.Errorf("dst_dir 不能为空")}
	}

	edge, err := strconv.Atoi(strings.TrimSpace(cli.LargerEdge))
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeBadArgs, Err: fmt.Errorf("larger_edge 必须是整数，实际是 %q", cli.LargerEdge)}
	}

	return EffectiveConfig{
		SrcDir:      absCleanFrom(cwdAbs, cli.SrcDir),
		DstDir:      absCleanFrom(cwdAbs, cli.DstDir),
		LargerEdge:  edge,
		Concurrency: DefaultConcurrency(),
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
