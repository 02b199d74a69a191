package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/John-Robertt/imscale/internal/app/run"
	"github.com/John-Robertt/imscale/internal/config"
	"github.com/John-Robertt/imscale/internal/domain"
)

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if isHelp(a) {
			printUsage()
			return
		}
	}

	// 少于 3 个参数：视为“询问用法”而非错误，打印用法并以 0 退出。
	if len(args) < 3 {
		printUsage()
		return
	}
	if len(args) > 3 {
		fmt.Fprintf(os.Stderr, "参数错误：期望正好 3 个位置参数，实际 %d 个\n\n", len(args))
		printUsage()
		os.Exit(2)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		os.Exit(1)
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		SrcDir:     args[0],
		DstDir:     args[1],
		LargerEdge: args[2],
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage()
		os.Exit(2)
	}

	progressW, interactive := pickProgressWriter()
	var obs run.Observer
	if interactive {
		obs = newProgressUI(progressW)
	}

	rr := run.ExecuteWithObserver(eff, obs)

	emitReport(rr)

	// 单张失败不影响退出码（可重试，下次运行会跳过已完成的）；
	// 只有整体性中止（源目录不可用等）才以非 0 退出。
	if rr.Aborted {
		os.Exit(1)
	}
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `用法：
  imscale <src_dir> <dst_dir> <larger_edge>

参数：
  src_dir      源目录（只扫描一层，不递归；只认 .jpg/.png/.jpeg）
  dst_dir      目标目录（不存在时自动创建；目标里已有同名文件的跳过）
  larger_edge  缩放后长边像素（整数；短边按原始宽高比换算，向下取整）
  -h, --help   显示帮助

示例：
  imscale ./images %s %d
`, defaultDstExample(), config.DefaultLargerEdge)
}

// defaultDstExample 给 usage 的示例算一个默认目标路径：可执行文件旁的 small_image/。
func defaultDstExample() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join(".", "small_image")
	}
	return filepath.Join(filepath.Dir(exe), "small_image")
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：ok=%d fail=%d total=%d\n", rr.Summary.OK, rr.Summary.Fail, rr.Summary.Total)
		if rr.Summary.Fail > 0 {
			for _, it := range rr.Items {
				if it.Status != domain.StatusFailed {
					continue
				}
				key := it.Name
				if key == "" {
					// 整体性失败的合成条目没有文件名。
					key = "<run>"
				}
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", key, it.ErrorCode, it.ErrorMsg)
			}
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：ok=%d fail=%d total=%d\n", rr.Summary.OK, rr.Summary.Fail, rr.Summary.Total)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
