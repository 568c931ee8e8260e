package sysinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadableSize(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0.00B"},
		{512, "512.00B"},
		{1024, "1.00KB"},
		{1536, "1.50KB"},
		{1024 * 1024, "1.00MB"},
		{5 * 1024 * 1024 * 1024, "5.00GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadableSize(tt.in))
	}
}

func TestReadableDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{500 * time.Millisecond, "0s"},
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m 0s"},
		{90 * time.Minute, "1h 30m 0s"},
		{26*time.Hour + 5*time.Minute + 3*time.Second, "1d 2h 5m 3s"},
		{48 * time.Hour, "2d 0h 0m 0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadableDuration(tt.in))
	}
}
