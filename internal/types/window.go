package types

import "time"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Weekly returns the seven day window starting at 00:00 UTC of start.
func Weekly(start Date) Window {
	return Window{
		Start: start.Time(),
		End:   start.AddDays(7).Time(),
	}
}

// Monthly returns the window from start until the first day of the following month.
func Monthly(start Date) Window {
	return Window{
		Start: start.Time(),
		End:   start.Month().AddDate(0, 1).Time(),
	}
}
