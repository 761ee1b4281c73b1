package model

import (
	"math"
	"strconv"
	"strings"
)

// DefaultTitle is the placeholder title given to new counters.
const DefaultTitle = "Untitled"

// MaxCount is the largest value a counter can hold.
const MaxCount uint64 = math.MaxUint64

// Counter is a titled, colored tally.
// ID is assigned by the store on Add and never changes afterwards.
type Counter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count uint64 `json:"count,string"` // exceeds JS number precision above 2^53
	Color Color  `json:"color"`
}

// NewCounter returns a counter with default field values and no ID.
// An empty title falls back to DefaultTitle.
func NewCounter(title string) Counter {
	if title == "" {
		title = DefaultTitle
	}
	return Counter{Title: title, Color: ColorSystem}
}

// CanIncrement reports whether Increment would change the count.
func (c Counter) CanIncrement() bool {
	return c.Count < MaxCount
}

// CanDecrement reports whether Decrement would change the count.
func (c Counter) CanDecrement() bool {
	return c.Count > 0
}

// ParseCount parses user-entered text as a count.
// Surrounding whitespace is ignored; anything else that is not a
// non-negative integer within range is rejected.
func ParseCount(text string) (uint64, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, &InvalidCountError{Text: text}
	}
	return value, nil
}

// InvalidCountError indicates text that cannot be used as a count.
type InvalidCountError struct {
	Text string
}

func (e *InvalidCountError) Error() string {
	return "invalid count " + strconv.Quote(e.Text) + ": must be a whole number between 0 and " +
		strconv.FormatUint(MaxCount, 10)
}
