package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// CategoryRule assigns a category to new transactions without one whose
// merchant matches the glob pattern. Globbing is case sensitive.
type CategoryRule struct {
	DefaultModel
	OwnerID  uuid.UUID `json:"ownerId" gorm:"uniqueIndex:category_rule_owner_match"`
	Priority uint      `json:"priority"`
	Match    string    `json:"match" gorm:"type:varchar(120);uniqueIndex:category_rule_owner_match"`
	Category string    `json:"category" gorm:"type:varchar(100)"`
}

func (CategoryRule) Self() string {
	return "Category Rule"
}

// Validate checks the rule before it is written.
func (r CategoryRule) Validate() error {
	if r.Match == "" {
		return ErrCategoryRuleMatch
	}

	if r.Category == "" {
		return ErrCategoryEmpty
	}

	return nil
}

// CreateCategoryRule validates and stores a new rule.
func CreateCategoryRule(db *gorm.DB, rule *CategoryRule) error {
	rule.Match = strings.TrimSpace(rule.Match)
	rule.Category = strings.TrimSpace(rule.Category)

	if err := rule.Validate(); err != nil {
		return err
	}

	return db.Create(rule).Error
}

// CategoryRules returns all rules of owner in the order they are applied.
func CategoryRules(db *gorm.DB, owner uuid.UUID) ([]CategoryRule, error) {
	rules := make([]CategoryRule, 0)
	err := db.Where(&CategoryRule{OwnerID: owner}).
		Order("category_rules.priority ASC, category_rules.created_at ASC").
		Find(&rules).Error

	return rules, err
}

// MatchCategory returns the category of the first rule matching the merchant.
// rules must be sorted by priority.
func MatchCategory(rules []CategoryRule, merchant string) (string, bool) {
	for _, rule := range rules {
		if glob.Glob(rule.Match, merchant) {
			return rule.Category, true
		}
	}
	return "", false
}

// CategoryFor applies the rules of owner to the merchant.
func CategoryFor(db *gorm.DB, owner uuid.UUID, merchant string) (string, bool, error) {
	rules, err := CategoryRules(db, owner)
	if err != nil {
		return "", false, err
	}

	category, ok := MatchCategory(rules, merchant)
	return category, ok, nil
}
