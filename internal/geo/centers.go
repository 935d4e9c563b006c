// Package geo carries the static directory of peripheral rabies treatment
// centers: numeric id_ctar code to town name and GPS position. The map layer
// joins aggregate rows against this table; the pipeline itself only uses it
// to label center ids.
package geo

// Center is one peripheral treatment center.
type Center struct {
	Name string
	Lat  float64
	Lon  float64
}

// centers indexes the known peripheral centers by their id_ctar code.
var centers = map[int]Center{
	1:   {"Soanierana Ivongo", -16.9167, 49.5833},
	2:   {"Fianarantsoa", -21.4545, 47.0833},
	3:   {"Vangaindrano", -23.3479, 47.5972},
	4:   {"Maroantsetra", -15.4333, 49.7500},
	7:   {"Ambatondrazaka", -17.8324, 48.4086},
	8:   {"Moramanga", -18.9333, 48.2000},
	9:   {"Nosy Be", -13.3333, 48.2667},
	10:  {"Antsiranana", -12.2795, 49.2913},
	12:  {"Bekily", -24.2333, 45.3833},
	13:  {"Antsirabe", -19.8659, 47.0333},
	14:  {"Antsohihy", -14.8667, 47.9833},
	15:  {"Mandritsara", -15.8333, 48.8333},
	16:  {"Ihosy", -22.4021, 46.1253},
	17:  {"Maevatanana", -16.9333, 46.8333},
	18:  {"Mahajanga", -15.7167, 46.3167},
	19:  {"Maintirano", -18.0566, 44.0297},
	21:  {"Miarinarivo", -19.0010, 46.7334},
	22:  {"Morondava", -20.2833, 44.2833},
	23:  {"Manja", -21.4167, 44.8667},
	24:  {"Sambava", -14.2667, 50.1667},
	25:  {"Taolagnaro", -25.0314, 46.9821},
	26:  {"Toliara", -23.3568, 43.6917},
	27:  {"Tsiroanomandidy", -18.7713, 46.0520},
	28:  {"Toamasina", -18.1492, 49.4023},
	30:  {"Ambositra", -20.5300, 47.2441},
	31:  {"Manakara", -22.1451, 48.0115},
	97:  {"Mananjary", -21.2300, 48.3439},
	100: {"Ambatomainty", -17.1884, 44.5947},
	101: {"Sainte Marie", -17.0000, 49.8500},
	102: {"Fort Dauphin", -25.0347, 46.9883},
	103: {"Ambovombe", -25.1744, 46.0876},
}

// Lookup resolves a center id. Unknown ids return ok=false; they are labeled
// by the caller, never dropped: an unknown center still has countable
// patients.
func Lookup(id int) (Center, bool) {
	c, ok := centers[id]
	return c, ok
}

// Name returns the town name for a center id, or "" when unknown.
func Name(id int) string {
	return centers[id].Name
}
