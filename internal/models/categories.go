package models

// Category names. Declaration order matters: the categorizer iterates
// categories in this order and the first keyword hit wins, so overlapping
// keywords resolve to the earlier category.
const (
	CategoryGroceries   = "Courses"
	CategoryRestaurants = "Restaurants"
	CategoryTransport   = "Transport"
	CategoryShopping    = "Shopping"
	CategorySecondhand  = "Seconde Main"
	CategoryLeisure     = "Loisirs"
	CategoryHealth      = "Sante"
	CategoryServices    = "Services"
	CategoryHousing     = "Logement"
	CategoryIncome      = "Revenus"
	CategoryTransfers   = "Virements"
	CategoryVehicle     = "Voiture"
	CategoryBanking     = "Banque"
	CategoryHome        = "Maison"

	// CategoryFallback is assigned when no keyword matches.
	CategoryFallback = "Autre"
)

var categoryOrder = []string{
	CategoryGroceries,
	CategoryRestaurants,
	CategoryTransport,
	CategoryShopping,
	CategorySecondhand,
	CategoryLeisure,
	CategoryHealth,
	CategoryServices,
	CategoryHousing,
	CategoryIncome,
	CategoryTransfers,
	CategoryVehicle,
	CategoryBanking,
	CategoryHome,
	CategoryFallback,
}

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(categoryOrder))
	for _, name := range categoryOrder {
		set[name] = struct{}{}
	}
	return set
}()

// Categories returns the enumerated category set in declaration order,
// including the fallback category.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ValidCategory reports whether name is a member of the enumerated category
// set. Category edits must never store anything outside this set.
func ValidCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}
