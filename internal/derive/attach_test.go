package derive

import (
	"testing"
	"time"

	"ctar/internal/schema"
	"ctar/internal/transform"
	"ctar/pkg/records"
)

func TestAttach_Central(t *testing.T) {
	t.Parallel()

	r := records.Record{
		transform.VisitDateColumn: time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC),
		schema.ColAge:             34,
		schema.ColAnimalType:      "D",
		"tet_cont":                "MT",
	}
	out := Attach{Variant: schema.Central}.Apply([]records.Record{r})[0]

	if out[ColSeason] != "Lohataona" {
		t.Errorf("season = %v", out[ColSeason])
	}
	if out[ColYear] != 2021 || out[ColMonth] != 10 {
		t.Errorf("year/month = %v/%v", out[ColYear], out[ColMonth])
	}
	if out[ColAgeBin] != "30-34" {
		t.Errorf("age_bin = %v", out[ColAgeBin])
	}
	if out[ColBehaviorLabel] != "Domestique propriétaire connu" {
		t.Errorf("typanim_label = %v", out[ColBehaviorLabel])
	}
	exps, ok := out[ColExposures].([]Exposure)
	if !ok || len(exps) != 1 || exps[0].Site != "Tête" {
		t.Errorf("exposures = %v", out[ColExposures])
	}
}

func TestAttach_NilInputsStayNil(t *testing.T) {
	t.Parallel()

	out := Attach{Variant: schema.Central}.Apply([]records.Record{{}})[0]

	for _, col := range []string{ColSeason, ColYear, ColMonth, ColAgeBin, ColBehaviorLabel, ColExposures} {
		if v, ok := out[col]; !ok || v != nil {
			t.Errorf("%s = %v (present=%v), want attached nil", col, v, ok)
		}
	}
}

func TestAttach_PeripheralCenterEnrichment(t *testing.T) {
	t.Parallel()

	out := Attach{Variant: schema.Peripheral}.Apply([]records.Record{{
		schema.ColCenterID:   "2",
		schema.ColCenterName: nil,
	}})[0]

	if out[schema.ColCenterName] == nil {
		t.Fatalf("center name not backfilled from the directory")
	}
	if out[ColLat] == nil || out[ColLon] == nil {
		t.Errorf("coordinates not attached: lat=%v lon=%v", out[ColLat], out[ColLon])
	}
}

func TestAttach_PeripheralKeepsExplicitCenterName(t *testing.T) {
	t.Parallel()

	out := Attach{Variant: schema.Peripheral}.Apply([]records.Record{{
		schema.ColCenterID:   "2",
		schema.ColCenterName: "Nom saisi",
	}})[0]

	if out[schema.ColCenterName] != "Nom saisi" {
		t.Errorf("explicit center name overwritten: %v", out[schema.ColCenterName])
	}
}
