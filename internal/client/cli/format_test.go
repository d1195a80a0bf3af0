package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/examkeeper/internal/client/i18n"
)

func ptr(n int64) *int64 { return &n }

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   *int64
		want string
	}{
		{nil, "—"},
		{ptr(0), "—"},
		{ptr(-5), "—"},
		{ptr(512), "512 B"},
		{ptr(1024), "1.0 KB"},
		{ptr(1536), "1.5 KB"},
		{ptr(15 * 1024 * 1024), "15.0 MB"},
		{ptr(3 * 1024 * 1024 * 1024), "3.0 GB"},
		{ptr(5000 * 1024 * 1024 * 1024), "5000.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}, i18n.PtBR))

	ts := time.Date(2024, 3, 7, 14, 5, 0, 0, time.Local)
	assert.Equal(t, "07/03/2024 14:05", FormatDate(ts, i18n.PtBR))
	assert.Equal(t, "03/07/2024 2:05 PM", FormatDate(ts, i18n.EnUS))
}
