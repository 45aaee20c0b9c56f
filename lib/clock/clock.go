package clock

import "time"

const layout = "2006-01-02T15:04:05Z"

func Now() string {
	return time.Now().UTC().Format(layout)
}

// Format renders an arbitrary time in the same layout used by Now.
func Format(t time.Time) string {
	return t.UTC().Format(layout)
}
