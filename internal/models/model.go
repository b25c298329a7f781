package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is implemented by every resource that belongs to an owner.
type Model interface {
	Self() string
}

// DefaultModel is the base model for all models in MirrorBank.
type DefaultModel struct {
	ID uuid.UUID `json:"id" gorm:"primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"` // UUID for the resource
	Timestamps
}

// Timestamps contains the timestamps that gorm sets automatically.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2022-04-17T20:14:01.048145Z"` // Last time the resource was updated
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)
	return nil
}

// BeforeCreate generates a UUID for the resource unless one is set already.
func (m *DefaultModel) BeforeCreate(_ *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ownedModel interface {
	Model
	Account | Transaction | Budget | Goal | CategoryRule
}

// FindOwned loads the resource with the given ID if it belongs to owner.
func FindOwned[R ownedModel](db *gorm.DB, owner, id uuid.UUID) (R, error) {
	var resource R
	err := db.Where("owner_id = ?", owner).First(&resource, "id = ?", id).Error
	return resource, err
}

// DeleteOwned deletes the resource with the given ID if it belongs to owner
// in a single statement.
func DeleteOwned[R ownedModel](db *gorm.DB, owner, id uuid.UUID) error {
	var resource R
	tx := db.Where("id = ? AND owner_id = ?", id, owner).Delete(&resource)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return notFound(resource)
	}
	return nil
}

// notFound returns the not found error for a resource type.
func notFound(resource Model) error {
	return fmt.Errorf("%w %s matching your query", ErrResourceNotFound, strings.ToLower(resource.Self()))
}
