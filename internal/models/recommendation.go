package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecommendationType string

const (
	RecommendationLowBalance RecommendationType = "low_balance"
	RecommendationOverspend  RecommendationType = "overspend"
)

// Recommendation is an entry of the append-only insight feed.
type Recommendation struct {
	DefaultModel
	OwnerID uuid.UUID          `json:"ownerId" gorm:"index"`
	Type    RecommendationType `json:"type" gorm:"type:varchar(40)"`
	Message string             `json:"message"`
}

func (Recommendation) Self() string {
	return "Recommendation"
}

// AppendRecommendation adds an entry to the feed.
func AppendRecommendation(db *gorm.DB, r *Recommendation) error {
	r.Type = RecommendationType(strings.TrimSpace(string(r.Type)))
	r.Message = strings.TrimSpace(r.Message)

	if r.Type == "" || r.Message == "" {
		return ErrRecommendationEmpty
	}

	return db.Create(r).Error
}

// Recommendations returns the newest entries of the feed of owner.
func Recommendations(db *gorm.DB, owner uuid.UUID, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	recommendations := make([]Recommendation, 0)
	err := db.Where(&Recommendation{OwnerID: owner}).
		Order("recommendations.created_at DESC, recommendations.id DESC").
		Limit(limit).
		Find(&recommendations).Error

	return recommendations, err
}
