// Package schema declares the column vocabulary of the two CTAR source
// extracts and validates a loaded table against it once, at the pipeline
// boundary. Downstream stages assume every column listed here is present.
package schema

// Variant identifies which source extract a table came from. The two extracts
// have disjoint but overlapping column sets; a table's variant is fixed at
// load time.
type Variant string

const (
	// Central is the main clinic (CTAR IPM) extract. Patients are identified
	// by the ref_mordu reference code and may span several visit rows.
	Central Variant = "central"

	// Peripheral is the regional-center extract. There is no stable patient
	// identity; every row is its own encounter.
	Peripheral Variant = "peripheral"
)

// Canonical column names shared by the pipeline. Derived columns (season,
// age_bin, year, month, ...) are attached by the derive stage and are not
// part of the source schema.
const (
	ColPatientRef  = "ref_mordu"
	ColConsultDate = "dat_consu"
	ColVaccSour    = "vacc_sour_date"
	ColVaccVero    = "vacc_vero_date"
	ColSex         = "sexe"
	ColAge         = "age"
	ColName        = "nom"
	ColAnimal      = "animal"
	ColAnimalType  = "typanim"

	ColCenterID    = "id_ctar"
	ColCenterName  = "ctar"
	ColPeriphDate  = "date_de_consultation"
	ColSpecies     = "espece"
	ColLesionCount = "nb_lesion"
)

// DateLayouts maps each date-bearing column to the layout its extract uses.
// dat_consu is day-first; the vaccination event dates and the peripheral
// consultation date are ISO.
var DateLayouts = map[string]string{
	ColConsultDate: "02/01/2006",
	ColVaccSour:    "2006-01-02",
	ColVaccVero:    "2006-01-02",
	ColPeriphDate:  "2006-01-02",
}

// ISOLayout is the fallback layout tried for any date cell whose
// column-specific layout fails.
const ISOLayout = "2006-01-02"

// SiteColumns maps the 8 anatomical exposure-site code columns to their
// site labels. Each column holds an exposure-category code (LPS, MT) or is
// blank.
var SiteColumns = map[string]string{
	"tet_cont":   "Tête",
	"m_sup_cont": "Bras et avant-bras",
	"ext_s_cont": "Main",
	"m_inf_cont": "Cuisse et Jambe",
	"ext_i_cont": "Pied",
	"abdo_cont":  "Abdomen",
	"dos_cont":   "Dos",
	"geni_cont":  "Parties génitales",
}

// LesionColumns maps the per-site lesion-count columns of the Central
// extract to the same site labels as SiteColumns.
var LesionColumns = map[string]string{
	"nbtet":     "Tête",
	"nb_sup":    "Bras et avant-bras",
	"nb_extr_s": "Main",
	"nb_inf":    "Cuisse et Jambe",
	"nb_extr_i": "Pied",
	"nb_abdo":   "Abdomen",
	"nb_dos":    "Dos",
	"nb_genit":  "Parties génitales",
}

// DateCandidates returns, per variant, the ordered list of columns consulted
// when resolving the canonical visit date. The first parseable candidate
// wins; resolution is one-shot.
func DateCandidates(v Variant) []string {
	switch v {
	case Central:
		return []string{ColConsultDate, ColVaccSour, ColVaccVero}
	case Peripheral:
		return []string{ColPeriphDate}
	default:
		return nil
	}
}

// FillFields returns the fields repaired by group-fill during Central
// deduplication. Order matters only for error messages.
func FillFields() []string {
	return []string{ColAge, ColSex, ColName}
}

// Required returns every column the normalizer, derivers and aggregator
// reference for the given variant. The validator checks this set against a
// loaded table's header.
func Required(v Variant) []string {
	switch v {
	case Central:
		cols := []string{
			ColPatientRef,
			ColConsultDate, ColVaccSour, ColVaccVero,
			ColSex, ColAge, ColName,
			ColAnimal, ColAnimalType,
		}
		for c := range SiteColumns {
			cols = append(cols, c)
		}
		for c := range LesionColumns {
			cols = append(cols, c)
		}
		return cols
	case Peripheral:
		return []string{
			ColCenterID, ColCenterName, ColPeriphDate,
			ColSex, ColAge, ColSpecies, ColLesionCount,
		}
	default:
		return nil
	}
}

// AgeValid is the inclusive bound on plausible patient ages; values outside
// it are nulled before binning.
func AgeValid(age int) bool { return age >= 0 && age <= 120 }
