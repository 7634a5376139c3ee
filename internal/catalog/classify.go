package catalog

import (
	"strings"

	"github.com/listinha-app/listinha/internal/model"
)

// Rule maps a category name to the keywords that select it. Rules are matched
// in slice order and the first keyword hit wins, so the table is an ordered
// list rather than a map: priority depends on declaration order.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultCategoryName is the fallback for names no rule matches.
const DefaultCategoryName = "Mercearia"

// DefaultRules is the built-in keyword table. Keywords are written in
// normalized form (lowercase, accent-free) because they are compared against
// textutil.Normalize output.
var DefaultRules = []Rule{
	{"Frutas e Verduras", []string{"fruta", "verdura", "legume", "banana", "maca", "tomate", "alface", "cebola", "batata", "laranja", "cenoura", "abobrinha", "brocolis"}},
	{"Carnes e Peixes", []string{"carne", "frango", "peixe", "linguica", "bisteca", "salmao", "ovos", "ovo"}},
	{"Laticínios", []string{"leite", "queijo", "iogurte", "requeijao", "manteiga", "creme"}},
	{"Padaria", []string{"pao", "baguete"}},
	{"Bebidas", []string{"agua", "refrigerante", "suco", "cerveja", "cafe", "bebida"}},
	{"Limpeza", []string{"detergente", "sabao", "sanitaria", "desinfetante", "esponja", "limpeza"}},
	{"Higiene", []string{"papel higienico", "sabonete", "creme dental", "shampoo", "desodorante", "higiene"}},
	{"Congelados", []string{"congelado", "congelada"}},
	{"Enlatados", []string{"conserva", "lata", "atum", "molho"}},
	{"Cereais e Grãos", []string{"arroz", "feijao", "acucar", "farinha", "macarrao", "cereal"}},
	{"Mercearia", []string{"oleo", "sal", "vinagre", "azeite", "maionese"}},
	{"Pet Shop", []string{"racao", "pet", "cao", "gato", "cachorro"}},
}

// Classify suggests a category id for an already-normalized product name.
// The first rule with a keyword contained in the name wins; an unmatched name
// falls back to DefaultCategoryName. Returns nil when the winning rule's
// category (or the fallback) is absent from categories. Classifier output is
// only a suggestion; a caller-supplied manual category always overrides it.
func Classify(name string, rules []Rule, categories []model.Category) *int64 {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(name, kw) {
				return categoryIDByName(categories, rule.Category)
			}
		}
	}
	return categoryIDByName(categories, DefaultCategoryName)
}

func categoryIDByName(categories []model.Category, name string) *int64 {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i].ID
		}
	}
	return nil
}
