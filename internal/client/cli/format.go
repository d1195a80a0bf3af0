package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/client/i18n"
)

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a size with binary units. Unknown or empty sizes
// render as an em dash.
func FormatBytes(size *int64) string {
	if size == nil || *size <= 0 {
		return "—"
	}
	val := float64(*size)
	i := 0
	for val >= 1024 && i < len(byteUnits)-1 {
		val /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", val, byteUnits[i])
	}
	return fmt.Sprintf("%.1f %s", val, byteUnits[i])
}

// FormatDate renders t in local time using the locale's conventions.
func FormatDate(t time.Time, loc i18n.Locale) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	if loc == i18n.EnUS {
		return t.Format("01/02/2006 3:04 PM")
	}
	return t.Format("02/01/2006 15:04")
}
