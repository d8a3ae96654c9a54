package cognito

import (
	"encoding/json"
	"math"
	"time"
)

// maxNumericDate is 9999-12-31T23:59:59Z. Larger NumericDates are rejected
// rather than overflowing time.Unix.
const maxNumericDate = 253402300799

// Claims is the decoded payload of a verified token. Numeric values are
// json.Number.
type Claims map[string]any

// String returns the named claim if it is a string.
func (c Claims) String(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

// Subject returns the "sub" claim, or "" if absent.
func (c Claims) Subject() string {
	s, _ := c.String("sub")
	return s
}

// Time reads a NumericDate claim such as "exp". Values that are not numbers,
// or lie beyond year 9999 in either direction, report false.
func (c Claims) Time(name string) (time.Time, bool) {
	var secs float64
	switch v := c[name].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		secs = f
	case float64:
		secs = v
	default:
		return time.Time{}, false
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > maxNumericDate {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
}
