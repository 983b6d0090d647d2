package domain

// Occupations is the closed vocabulary for parent and guardian occupation.
var Occupations = []string{
	"Agriculture",
	"Business",
	"Daily Wage Labourer",
	"Government Employee",
	"Homemaker",
	"Private Sector Employee",
	"Professional",
	"Retired",
	"Self Employed",
	"Unemployed",
	"Other",
}

var occupationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Occupations))
	for _, o := range Occupations {
		m[o] = struct{}{}
	}
	return m
}()

// IsOccupation reports whether o belongs to the vocabulary.
func IsOccupation(o string) bool {
	_, ok := occupationSet[o]
	return ok
}
