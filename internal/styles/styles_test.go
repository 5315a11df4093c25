package styles

import (
	"strings"
	"testing"
)

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel("ok", true); !strings.Contains(got, "ok (changed)") {
		t.Errorf("expected changed label, got %q", got)
	}
	if got := StatusLabel("failed", false); !strings.Contains(got, "failed") || strings.Contains(got, "changed") {
		t.Errorf("unexpected label %q", got)
	}
}

func TestStatusStyle_Colours(t *testing.T) {
	tests := []struct {
		status  string
		changed bool
		want    any
	}{
		{"ok", false, Green},
		{"ok", true, Yellow},
		{"failed", false, Red},
		{"skipped", false, Gray},
	}
	for _, tt := range tests {
		if got := StatusStyle(tt.status, tt.changed).GetForeground(); got != tt.want {
			t.Errorf("StatusStyle(%q, %v) foreground = %v, want %v", tt.status, tt.changed, got, tt.want)
		}
	}
}
