package widgets

import (
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/status"
)

func TestRenderGauge(t *testing.T) {
	tests := []struct {
		name       string
		usage      float64
		limit      float64
		wantFilled int
		wantPct    string
	}{
		{"half", 50, 100, 10, " 50%"},
		{"empty", 0, 100, 0, "  0%"},
		{"full", 100, 100, 20, "100%"},
		{"over clamps bar", 150, 100, 20, "150%"},
		{"no limit", 10, 0, 0, "  0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGaugeConfig()
			cfg.Usage, cfg.Limit = tt.usage, tt.limit

			out := RenderGauge(cfg)
			if got := strings.Count(out, "█"); got != tt.wantFilled {
				t.Errorf("filled = %d, want %d (%q)", got, tt.wantFilled, out)
			}
			if got := strings.Count(out, "░"); got != 20-tt.wantFilled {
				t.Errorf("empty = %d, want %d", got, 20-tt.wantFilled)
			}
			if !strings.HasSuffix(out, tt.wantPct) {
				t.Errorf("output %q missing %q", out, tt.wantPct)
			}
		})
	}
}

func TestRenderGaugeLabelAndWidth(t *testing.T) {
	out := RenderGauge(GaugeConfig{Width: 8, Usage: 1, Limit: 4, Label: "CPU"})
	if !strings.HasPrefix(out, "CPU ") {
		t.Errorf("missing label: %q", out)
	}
	if strings.Count(out, "█")+strings.Count(out, "░") != 8 {
		t.Errorf("bar is not 8 cells: %q", out)
	}
	if strings.Contains(out, "%") {
		t.Errorf("percent shown without ShowPercent: %q", out)
	}
}

func TestGaugeColor(t *testing.T) {
	tests := []struct {
		usage, limit float64
		want         string
	}{
		{10, 100, string(colorOK)},
		{90, 100, string(colorWarning)},
		{100, 100, string(colorWarning)},
		{101, 100, string(colorDanger)},
		{5, 0, string(colorMuted)},
	}
	for _, tt := range tests {
		if got := string(gaugeColor(tt.usage, tt.limit, 0.9)); got != tt.want {
			t.Errorf("gaugeColor(%v, %v) = %s, want %s", tt.usage, tt.limit, got, tt.want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil, 10, 100) != "" {
		t.Error("empty data should render nothing")
	}

	out := RenderSparkline([]float64{0, 50, 100}, 3, 100)
	if out != "▁▅█" {
		t.Errorf("RenderSparkline = %q, want %q", out, "▁▅█")
	}

	padded := RenderSparkline([]float64{100}, 4, 100)
	if padded != "   █" {
		t.Errorf("padding = %q", padded)
	}

	truncated := RenderSparkline([]float64{0, 0, 0, 100}, 2, 100)
	if []rune(truncated)[1] != '█' || len([]rune(truncated)) != 2 {
		t.Errorf("truncation kept wrong values: %q", truncated)
	}
}

func TestRenderSparklineAutoScale(t *testing.T) {
	out := RenderSparkline([]float64{1, 2}, 2, 0)
	if []rune(out)[1] != '█' {
		t.Errorf("largest value should use the tallest block: %q", out)
	}
	if zero := RenderSparkline([]float64{0, 0}, 2, 0); zero != "▁▁" {
		t.Errorf("all-zero = %q", zero)
	}
}

func TestRenderLevel(t *testing.T) {
	if got := RenderLevel(status.LevelUnknown, ""); got != "○" {
		t.Errorf("unknown icon = %q", got)
	}
	if got := RenderLevel(status.LevelHealthy, "healthy"); !strings.HasSuffix(got, " healthy") {
		t.Errorf("RenderLevel = %q", got)
	}
	if got := RenderLevel(status.Level(42), "x"); !strings.Contains(got, "○") {
		t.Errorf("invalid level should fall back to unknown: %q", got)
	}
}

func TestRenderPanelNil(t *testing.T) {
	out := RenderPanel(nil, PanelConfig{Width: 60})
	if !strings.Contains(out, "no data yet") {
		t.Errorf("placeholder missing: %q", out)
	}
}

func TestRenderPanel(t *testing.T) {
	s := collectors.MockViolatingSnapshot()
	now := func() time.Time { return s.Timestamp.Add(90 * time.Second) }

	out := RenderPanel(s, PanelConfig{Width: 80, Now: now})
	for _, want := range []string{"critical", "memory", "cpu", "disk", "over limit: 60.00 GB of 50.00 GB", "118 pairs", "updated 1m ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "failed") {
		t.Errorf("no failures should be reported:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{512, "512 B"},
		{1500, "1.5 kB"},
		{2.5e6, "2.5 MB"},
		{1.2e9, "1.20 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{42 * time.Second, "42s"},
		{5 * time.Minute, "5m"},
		{125 * time.Minute, "2h05m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.in); got != tt.want {
			t.Errorf("formatAge(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
