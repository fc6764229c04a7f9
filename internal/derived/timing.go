package derived

import (
	"errors"
	"fmt"
	"time"
)

// EditWindow is how long after its date a purchase or transfer stays editable.
const EditWindow = 30 * 24 * time.Hour

// ErrFutureDate is returned by FormatTimeAgo for dates after now.
var ErrFutureDate = errors.New("date is in the future")

// IsEditable compares elapsed time against the window exactly, so a record
// 30 days and one second old is already read-only.
func IsEditable(recordDate, now time.Time) bool {
	return now.Sub(recordDate) <= EditWindow
}

// FormatTimeAgo renders elapsed time with hour granularity.
func FormatTimeAgo(date, now time.Time) (string, error) {
	elapsed := now.Sub(date)
	if elapsed < 0 {
		return "", fmt.Errorf("format %s relative to %s: %w", date.Format(time.RFC3339), now.Format(time.RFC3339), ErrFutureDate)
	}
	hours := int64(elapsed / time.Hour)
	switch {
	case hours < 1:
		return "Just now", nil
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours), nil
	default:
		return fmt.Sprintf("%d days ago", hours/24), nil
	}
}
