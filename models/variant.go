package models

// CustomerVariant is the product combination one customer bought
type CustomerVariant struct {
	Email    string
	Country  string
	Key      string
	Products map[string]int
}

// VariantStat counts the customers sharing a variant, per country
type VariantStat struct {
	Key       string
	Products  map[string]int
	Countries map[string]int
}

// Total returns the number of customers across all countries
func (v VariantStat) Total() int {
	total := 0
	for _, n := range v.Countries {
		total += n
	}
	return total
}

// VariantSection groups variants under a product heading
type VariantSection struct {
	Title    string
	Variants []VariantStat
}

// VariantReport is the organized output of a variant analysis
type VariantReport struct {
	Products       []string
	Countries      []string
	Sections       []VariantSection
	Users          int
	UniqueVariants int
}

// OtherCombinationsTitle heads the section holding variants no selected product claimed
const OtherCombinationsTitle = "Autres combinaisons"
