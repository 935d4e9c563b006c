package derive

import "fmt"

// ageBinWidth and ageBinOpenEnd define the fixed cohort grid: width-5 bins
// from 0 up to 100, then a single open-ended bin.
const (
	ageBinWidth   = 5
	ageBinOpenEnd = 100
)

// AgeBinOpenLabel is the label of the open-ended top cohort.
const AgeBinOpenLabel = "100+"

// AgeBin maps an age to its fixed-width cohort label ("0-4", "5-9", ...,
// "95-99", "100+"). Negative ages have no cohort: ok is false and the caller
// must exclude the record, never clamp it into the first bin.
func AgeBin(age int) (label string, ok bool) {
	if age < 0 {
		return "", false
	}
	if age >= ageBinOpenEnd {
		return AgeBinOpenLabel, true
	}
	lo := (age / ageBinWidth) * ageBinWidth
	return fmt.Sprintf("%d-%d", lo, lo+ageBinWidth-1), true
}
