package usage

import (
	"strings"
	"testing"
)

func TestParseProcessTicks(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{
			name:  "plain comm",
			input: "4242 (resmon) S 1 4242 4242 0 -1 4194560 2250 0 0 0 130 45 0 0 20 0 12 0 5000 1000000 2000 18446744073709551615",
			want:  175,
		},
		{
			name:  "comm with spaces and parens",
			input: "99 (my (odd) agent) R 1 99 99 0 -1 0 0 0 0 0 7 3 0 0 20 0 1 0 1 1 1",
			want:  10,
		},
		{
			name:    "missing terminator",
			input:   "99 resmon R 1",
			wantErr: true,
		},
		{
			name:    "truncated",
			input:   "99 (resmon) R 1 2 3",
			wantErr: true,
		},
		{
			name:    "non numeric utime",
			input:   "99 (resmon) R 1 99 99 0 -1 0 0 0 0 0 x 3 0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProcessTicks(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got ticks=%d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ticks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTotalTicks(t *testing.T) {
	content := `cpu  100 0 50 800 10 5 3 0 0 0
cpu0 50 0 25 400 5 2 1 0 0 0
intr 12345
`
	got, err := parseTotalTicks(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 968 {
		t.Errorf("total = %d, want 968", got)
	}
}

func TestParseTotalTicksMissingLine(t *testing.T) {
	if _, err := parseTotalTicks(strings.NewReader("cpu0 1 2 3\nintr 4\n")); err == nil {
		t.Error("expected error when aggregate cpu line is absent")
	}
}
