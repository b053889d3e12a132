package postgres

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to page size", 0, 100},
		{"negative falls back to page size", -5, 100},
		{"over the cap is capped", 500, 100},
		{"in range passes through", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampLimit(tt.limit); got != tt.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"negative becomes first page", -1, 0},
		{"zero passes through", 0, 0},
		{"positive passes through", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampOffset(tt.offset); got != tt.want {
				t.Errorf("clampOffset(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}
