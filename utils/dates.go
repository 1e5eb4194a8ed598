// utils/dates.go
package utils

import "time"

const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
