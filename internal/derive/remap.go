package derive

// animalBehavior is the single-letter coding the Central extract uses for
// the biting animal's status. The same table serves every chart that touches
// typanim.
var animalBehavior = map[string]string{
	"A": "Sauvage",
	"B": "Errant disparu",
	"C": "Errant vivant",
	"D": "Domestique propriétaire connu",
	"E": "Domestique disparu",
	"F": "Domestique abattu",
	"G": "Domestique mort",
}

// AnimalBehavior remaps a typanim code to its human label. Codes outside the
// known alphabet pass through unchanged so source-data drift shows up in the
// output instead of raising mid-pipeline.
func AnimalBehavior(code string) string {
	if label, ok := animalBehavior[code]; ok {
		return label
	}
	return code
}
