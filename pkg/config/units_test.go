package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"Standard seconds", "30s", 30 * time.Second, false},
		{"Standard composite", "2h45m", 2*time.Hour + 45*time.Minute, false},
		{"Days", "1d", 24 * time.Hour, false},
		{"Weeks", "2w", 2 * Week, false},
		{"Day plus hours", "1d2h", 26 * time.Hour, false},
		{"Empty", "", 0, false},
		{"Garbage", "soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
