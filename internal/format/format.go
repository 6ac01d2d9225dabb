// Package format renders stopwatch durations as MM:SS.mmm.
package format

import (
	"strconv"
	"strings"
	"time"
)

// Units is a lapse split into display components.
type Units struct {
	Min  string
	Sec  string
	Msec string // always three digits
}

// FormatUnits splits lapse into whole minutes, whole seconds within the
// minute, and the truncated millisecond fraction. Sub-millisecond precision
// is dropped.
func FormatUnits(lapse time.Duration) Units {
	ms := lapse.Milliseconds()
	totalSec := floorDiv(ms, 1000)
	msec := ms - totalSec*1000

	return Units{
		Min:  strconv.FormatInt(floorDiv(totalSec, 60), 10),
		Sec:  strconv.FormatInt(totalSec-floorDiv(totalSec, 60)*60, 10),
		Msec: PadLeft(3, strconv.FormatInt(msec, 10)),
	}
}

// PadLeft left-pads s with zeros to width characters. Strings already
// longer than width are returned unchanged.
func PadLeft(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Clock formats lapse as MM:SS.mmm. Minutes grow past two digits instead
// of wrapping.
func Clock(lapse time.Duration) string {
	u := FormatUnits(lapse)
	return PadLeft(2, u.Min) + ":" + PadLeft(2, u.Sec) + "." + u.Msec
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
