// Package derive holds the pure dimension-derivation functions: season
// classification, age binning, animal-behavior code remapping, and the
// exposure-site fan-out. The near-duplicate per-chart copies of this logic in
// the dashboard all route through here so boundary behavior cannot drift.
package derive

import "time"

// Season is one of the four Malagasy epidemiological season labels.
type Season string

const (
	Lohataona  Season = "Lohataona"  // été, Sep 15 – Dec 15
	Fahavratra Season = "Fahavratra" // pluie, Dec 15 – Mar 15
	Fararano   Season = "Fararano"   // automne, Mar 15 – Jun 15
	Ritinina   Season = "Ritinina"   // hiver, Jun 15 – Sep 15
)

// SeasonOf classifies a date into its season window. Windows are
// [inclusive, exclusive), anchored on day 15 of the boundary months, and the
// rain season wraps the calendar year (Dec 15 of year Y through Mar 14 of
// year Y+1). Total over any valid calendar date; a caller holding no date
// must not call this (a missing date has no season).
func SeasonOf(d time.Time) Season {
	y := d.Year()
	switch {
	case !d.Before(anchor(y, time.September)) && d.Before(anchor(y, time.December)):
		return Lohataona
	case !d.Before(anchor(y, time.December)) || d.Before(anchor(y, time.March)):
		return Fahavratra
	case !d.Before(anchor(y, time.March)) && d.Before(anchor(y, time.June)):
		return Fararano
	default:
		return Ritinina
	}
}

func anchor(year int, m time.Month) time.Time {
	return time.Date(year, m, 15, 0, 0, 0, 0, time.UTC)
}
