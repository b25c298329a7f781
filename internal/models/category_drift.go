package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// CategoryVariants are different spellings of what is probably the same category.
//
// Budgets match transactions by exact category, so a budget for "Groceries"
// does not count a debit in "groceries".
type CategoryVariants struct {
	Folded    string   `json:"folded"`
	Spellings []string `json:"spellings"`
}

// CategoryDrift returns all groups of categories used by owner in transactions,
// budgets or category rules that only differ in case.
func CategoryDrift(db *gorm.DB, owner uuid.UUID) ([]CategoryVariants, error) {
	var categories []string

	for _, model := range []any{&Transaction{}, &Budget{}, &CategoryRule{}} {
		var found []string
		err := db.Model(model).
			Distinct("category").
			Where("owner_id = ?", owner).
			Pluck("category", &found).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, found...)
	}

	fold := cases.Fold()
	groups := make(map[string]map[string]struct{})
	for _, c := range categories {
		key := fold.String(c)
		if groups[key] == nil {
			groups[key] = make(map[string]struct{})
		}
		groups[key][c] = struct{}{}
	}

	drift := make([]CategoryVariants, 0)
	for key, spellings := range groups {
		if len(spellings) < 2 {
			continue
		}

		variants := CategoryVariants{Folded: key}
		for s := range spellings {
			variants.Spellings = append(variants.Spellings, s)
		}
		slices.Sort(variants.Spellings)
		drift = append(drift, variants)
	}

	slices.SortFunc(drift, func(a, b CategoryVariants) int {
		return strings.Compare(a.Folded, b.Folded)
	})

	return drift, nil
}
