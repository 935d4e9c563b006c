package derive

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeasonOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Time
		want Season
	}{
		// Window starts are inclusive, ends exclusive, anchored on day 15.
		{date(2021, time.September, 15), Lohataona},
		{date(2021, time.December, 14), Lohataona},
		{date(2021, time.December, 15), Fahavratra},
		{date(2022, time.March, 14), Fahavratra},
		{date(2022, time.March, 15), Fararano},
		{date(2022, time.June, 14), Fararano},
		{date(2022, time.June, 15), Ritinina},
		{date(2022, time.September, 14), Ritinina},

		// The rain season wraps the calendar year: both sides of New Year
		// classify the same.
		{date(2021, time.December, 31), Fahavratra},
		{date(2022, time.January, 1), Fahavratra},
		{date(2022, time.February, 28), Fahavratra},

		// Mid-window spot checks.
		{date(2021, time.October, 20), Lohataona},
		{date(2022, time.April, 1), Fararano},
		{date(2022, time.July, 4), Ritinina},

		// Leap day.
		{date(2020, time.February, 29), Fahavratra},
	}

	for _, tt := range tests {
		if got := SeasonOf(tt.d); got != tt.want {
			t.Errorf("SeasonOf(%s) = %s, want %s", tt.d.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestSeasonOf_TotalOverAYear(t *testing.T) {
	t.Parallel()

	// Every day of a full year classifies into exactly one of the four
	// labels; there are no gaps at the window seams.
	d := date(2021, time.January, 1)
	for d.Year() == 2021 {
		switch SeasonOf(d) {
		case Lohataona, Fahavratra, Fararano, Ritinina:
		default:
			t.Fatalf("SeasonOf(%s) returned %q", d.Format("2006-01-02"), SeasonOf(d))
		}
		d = d.AddDate(0, 0, 1)
	}
}
