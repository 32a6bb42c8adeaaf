package categorizer

import "budget-dashboard/internal/models"

// Rule maps one category to its keyword phrases. Rules are matched in slice
// order and keywords in declared order; the first substring hit wins. There
// is no scoring and no longest-match preference, so overlapping keywords
// across categories resolve purely by declaration order (e.g. "virement" is
// claimed by Revenus before Virements, "essence" by Transport before Voiture).
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RulesFile is the on-disk shape of the keyword table: an ordered list under
// a top-level "categories" key.
type RulesFile struct {
	Categories []Rule `yaml:"categories"`
}

// DefaultRules returns the built-in keyword table, used when no categories
// file is configured. Keywords are already lowercase.
func DefaultRules() []Rule {
	return []Rule{
		{Name: models.CategoryGroceries, Keywords: []string{
			"carrefour", "carreefour", "lidl", "aldi", "monoprix", "leclerc",
			"intermarche", "super u", "casino", "franprix", "marche", "epicerie",
			"boulangerie", "alimentation", "picard",
		}},
		{Name: models.CategoryRestaurants, Keywords: []string{
			"restaurant", "cafe", "bar", "bistrot", "brasserie", "uber eats",
			"deliveroo", "just eat", "frichti", "traiteur",
		}},
		{Name: models.CategoryTransport, Keywords: []string{
			"uber", "taxi", "transport", "metro", "ratp", "sncf", "bus", "train",
			"essence", "carburant", "parking", "peage", "autoroute",
		}},
		{Name: models.CategoryShopping, Keywords: []string{
			"amazon", "fnac", "darty", "galeries lafayette", "printemps", "zara",
			"h&m", "uniqlo", "decathlon", "vetement", "achat", "buisson", "mathon",
			"verbaudet",
		}},
		{Name: models.CategorySecondhand, Keywords: []string{
			"vinted", "leboncoin",
		}},
		{Name: models.CategoryLeisure, Keywords: []string{
			"cinema", "film", "theatre", "billet", "concert", "netflix", "deezer",
			"abonnement", "cubicle", "steam", "epic games",
		}},
		{Name: models.CategoryHealth, Keywords: []string{
			"pharmacie", "medecin", "docteur", "medical", "sante", "dentiste",
			"hopital", "mutuelle", "delignieres", "pharma", "dafniet", "klouche",
			"cadeau",
		}},
		{Name: models.CategoryServices, Keywords: []string{
			"electricite", "edf", "engie", "eau", "veolia", "internet", "orange",
			"sfr", "free", "bouygues", "facture", "gimmick",
		}},
		{Name: models.CategoryHousing, Keywords: []string{
			"loyer", "credit", "appartement", "maison", "assurance", "habitation",
			"charges", "immobilier",
		}},
		{Name: models.CategoryIncome, Keywords: []string{
			"salaire", "virement", "revenu", "paiement recu", "remboursement",
		}},
		{Name: models.CategoryTransfers, Keywords: []string{
			"virement", "retrait", "depot", "dab", "guichet",
		}},
		{Name: models.CategoryVehicle, Keywords: []string{
			"essence", "carburant", "parking", "peage", "autoroute", "asf",
			"bain de",
		}},
		{Name: models.CategoryBanking, Keywords: []string{
			"lcl", "cotisation", "assurance", "caci",
		}},
		{Name: models.CategoryHome, Keywords: []string{
			"leroy",
		}},
	}
}
