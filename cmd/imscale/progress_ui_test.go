package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/John-Robertt/imscale/internal/domain"
)

func TestProgressUI_SuccessPrintsOnlyMilestones(t *testing.T) {
	var buf bytes.Buffer
	p := &progressUI{w: &buf, milestoneEvery: 2}

	for i := 1; i <= 5; i++ {
		p.OnItemDone(i, 5, domain.ItemResult{
			Name:   "a.jpg",
			Status: domain.StatusResized,
			Width:  160,
			Height: 80,
		}, 10*time.Millisecond)
	}

	// 5 张成功、里程碑间隔 2：只应在第 2、4 张时各打一行。
	if got := strings.Count(buf.String(), "进度:"); got != 2 {
		t.Fatalf("期望 2 行里程碑，实际 %d 行：%q", got, buf.String())
	}
	if strings.Contains(buf.String(), "FAIL") {
		t.Fatalf("成功流不应出现 FAIL：%q", buf.String())
	}
}

func TestProgressUI_FailurePrintsImmediately(t *testing.T) {
	var buf bytes.Buffer
	p := &progressUI{w: &buf, milestoneEvery: 1000}

	p.OnItemDone(1, 3, domain.ItemResult{Name: "b.jpg", Status: domain.StatusFailed, ErrorCode: domain.ErrCodeDecodeFailed, ErrorMsg: "解码失败"}, time.Millisecond)
	p.OnItemDone(2, 3, domain.ItemResult{Name: "a.jpg", Status: domain.StatusResized, Width: 160, Height: 80}, time.Millisecond)
	p.OnItemDone(3, 3, domain.ItemResult{Name: "c.png", Status: domain.StatusFailed, ErrorCode: domain.ErrCodeEncodeFailed, ErrorMsg: "写入失败"}, time.Millisecond)

	out := buf.String()
	if got := strings.Count(out, "FAIL"); got != 2 {
		t.Fatalf("期望 2 行失败输出，实际 %d 行：%q", got, out)
	}
	// 失败行携带累计失败数。
	if !strings.Contains(out, "fail=1") || !strings.Contains(out, "fail=2") {
		t.Fatalf("失败行缺少累计计数：%q", out)
	}
	if !strings.Contains(out, "b.jpg FAIL decode_failed") || !strings.Contains(out, "c.png FAIL encode_failed") {
		t.Fatalf("失败行缺少文件名/错误码：%q", out)
	}
}

func TestProgressUI_EmptyPlanNote(t *testing.T) {
	var buf bytes.Buffer
	p := &progressUI{w: &buf, milestoneEvery: 1000}

	p.OnPhaseDone("plan", map[string]any{"items": 0, "skipped": 3}, 5*time.Millisecond)

	if !strings.Contains(buf.String(), "没有需要处理的图片") {
		t.Fatalf("空计划应有提示：%q", buf.String())
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(3*time.Hour + 4*time.Minute + 5*time.Second); got != "03:04:05" {
		t.Fatalf("期望 03:04:05，实际 %q", got)
	}
	if got := formatElapsed(-time.Second); got != "00:00:00" {
		t.Fatalf("负值期望 00:00:00，实际 %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 160); got != "short" {
		t.Fatalf("短串不应截断：%q", got)
	}
	long := strings.Repeat("x", 200)
	got := truncate(long, 160)
	if len(got) != 160 || !strings.HasSuffix(got, "...") {
		t.Fatalf("长串应截断为 160 且以 ... 结尾：len=%d", len(got))
	}
}
