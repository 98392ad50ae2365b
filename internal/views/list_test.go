package views

import (
	"strings"
	"testing"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

func TestRenderList(t *testing.T) {
	tasks := []backend.Task{
		{ID: "3", Description: "Ship release", Project: "web", Tags: []string{"deploy"}, Urgency: 14.2, Status: backend.StatusPending, Start: daysAgo(1)},
		{ID: "8", Description: "Buy milk", Urgency: 0.4, Status: backend.StatusPending},
		{ID: "4", Description: "Old chore", Urgency: 0, Status: backend.StatusCompleted, Modified: daysAgo(1)},
	}

	var buf strings.Builder
	err := RenderList(&buf, tasks, ListOptions{ShowMetadata: true, Theme: PlainTheme(), Now: groupNow})
	if err != nil {
		t.Fatalf("RenderList() = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "[ 03] ▶ Ship release (web) +deploy [14.2]") {
		t.Errorf("active line malformed:\n%s", out)
	}
	if !strings.Contains(out, "[ 08] ○ Buy milk [0.4]") {
		t.Errorf("pending line malformed:\n%s", out)
	}
	if !strings.Contains(out, "✓ Old chore") {
		t.Errorf("completed line missing check icon:\n%s", out)
	}
	if !strings.Contains(out, "Total: 3 tasks") {
		t.Errorf("stats line missing:\n%s", out)
	}
	// Blank separator after the high urgency block.
	if !strings.Contains(out, "[14.2]\n\n") {
		t.Errorf("missing blank line after high urgency block:\n%s", out)
	}
}

func TestRenderListHidesMetadata(t *testing.T) {
	tasks := []backend.Task{
		{ID: "1", Description: "Quiet", Project: "web", Urgency: 3, Status: backend.StatusPending},
	}

	var buf strings.Builder
	err := RenderList(&buf, tasks, ListOptions{ShowMetadata: false, Theme: PlainTheme(), Now: groupNow})
	if err != nil {
		t.Fatalf("RenderList() = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "(web)") || strings.Contains(out, "[3.0]") {
		t.Errorf("metadata rendered despite show_metadata=false:\n%s", out)
	}
	if !strings.Contains(out, "Quiet") {
		t.Errorf("description missing:\n%s", out)
	}
}

func TestRenderListBlockedMarker(t *testing.T) {
	tasks := []backend.Task{
		{ID: "1", Description: "Stuck", Depends: []string{"2"}, Status: backend.StatusPending},
		{ID: "2", Description: "Opener", Status: backend.StatusPending},
	}

	var buf strings.Builder
	err := RenderList(&buf, tasks, ListOptions{Theme: PlainTheme(), Now: groupNow})
	if err != nil {
		t.Fatalf("RenderList() = %v", err)
	}
	if !strings.Contains(buf.String(), "! Stuck") {
		t.Errorf("blocked task should carry the ! marker:\n%s", buf.String())
	}
}

func TestRenderListEmpty(t *testing.T) {
	var buf strings.Builder
	if err := RenderList(&buf, nil, ListOptions{Theme: PlainTheme()}); err != nil {
		t.Fatalf("RenderList() = %v", err)
	}
	if !strings.Contains(buf.String(), "No tasks found") {
		t.Errorf("empty list should say so, got %q", buf.String())
	}
}
