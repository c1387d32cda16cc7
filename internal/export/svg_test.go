package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/physcore/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 10)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Fatalf("expected 2 circles, got %d", got)
	}
	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Error("unexpected image size")
	}
	if !strings.Contains(svg, `cx="35.0" cy="35.0"`) {
		t.Error("missing dot at (3, 3)")
	}

	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}, {2, 0}}

	svg := TrajectoryToSVG(points, 120, 60, "#ff0000")
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke color not applied")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
	// First point sits one margin in from the left and bottom.
	if !strings.Contains(svg, `d="M10.0,55.0`) {
		t.Errorf("unexpected path start in %s", svg)
	}

	if TrajectoryToSVG(points[:1], 10, 10, "red") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestWriteFile(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFile("-", &buf, "<svg/>"); err != nil || buf.String() != "<svg/>" {
		t.Fatalf("stdout write: %v %q", err, buf.String())
	}

	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteFile(path, nil, "<svg/>"); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "<svg/>" {
		t.Errorf("file content %q", data)
	}

	if err := WriteFile(path, nil, ""); err == nil {
		t.Error("expected error for empty image")
	}
}
