package derive

import (
	"strconv"
	"time"

	"ctar/internal/geo"
	"ctar/internal/schema"
	"ctar/internal/transform"
	"ctar/pkg/records"
)

// Derived column names attached by Attach. They extend the source vocabulary
// declared in the schema package and are what callers name when choosing
// grouping dimensions.
const (
	ColSeason        = "season"
	ColAgeBin        = "age_bin"
	ColYear          = "year"
	ColMonth         = "month"
	ColBehaviorLabel = "typanim_label"
	ColExposures     = "exposures"
	ColLat           = "lat"
	ColLon           = "lon"
)

// Attach is the transform.Step that writes the derived dimensions onto each
// normalized record: season, age_bin, year and month from the resolved visit
// date, the animal-behavior label, the exposure fan-out, and (for the
// peripheral extract) the treatment-center coordinates. Each derived
// value is a pure function of its inputs; a nil input leaves the derived
// column nil rather than inventing a default.
type Attach struct {
	Variant schema.Variant
}

func (a Attach) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[ColSeason] = nil
		r[ColYear] = nil
		r[ColMonth] = nil
		if t, ok := r[transform.VisitDateColumn].(time.Time); ok {
			r[ColSeason] = string(SeasonOf(t))
			r[ColYear] = t.Year()
			r[ColMonth] = int(t.Month())
		}

		r[ColAgeBin] = nil
		if age, ok := r[schema.ColAge].(int); ok {
			if label, ok := AgeBin(age); ok {
				r[ColAgeBin] = label
			}
		}

		if a.Variant == schema.Peripheral {
			if id, ok := centerID(r[schema.ColCenterID]); ok {
				if c, found := geo.Lookup(id); found {
					if r.IsEmpty(schema.ColCenterName) {
						r[schema.ColCenterName] = c.Name
					}
					r[ColLat] = c.Lat
					r[ColLon] = c.Lon
				}
			}
		}

		if a.Variant == schema.Central {
			r[ColBehaviorLabel] = nil
			if code, ok := r[schema.ColAnimalType].(string); ok && code != "" {
				r[ColBehaviorLabel] = AnimalBehavior(code)
			}
			if exps := Exposures(r); len(exps) > 0 {
				r[ColExposures] = exps
			} else {
				r[ColExposures] = nil
			}
		}
	}
	return in
}

// centerID accepts the id_ctar cell in whichever shape the loader produced.
func centerID(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}
