// Package entity provides base types for all domain entities.
package entity

import (
	"context"
	"time"

	"cuentas/internal/core/id"
)

// Validatable is implemented by entities that can check their own
// invariants without touching the database.
type Validatable interface {
	// Validate returns nil when the entity is consistent, otherwise an
	// AppError describing the first violated rule.
	Validate(ctx context.Context) error
}

// BaseEntity carries the fields shared by every persisted row: a UUIDv7
// primary key, a soft-delete flag and a counter for optimistic locking.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version grows by one on each update; repositories refuse writes
	// against a stale version.
	Version int `db:"version" json:"version"`
}

func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// Touch bumps the optimistic-lock counter.
func (b *BaseEntity) Touch() {
	b.Version++
}

// MarkDeleted sets the deletion mark.
func (b *BaseEntity) MarkDeleted() {
	b.DeletionMark = true
}

// Undelete clears the deletion mark.
func (b *BaseEntity) Undelete() {
	b.DeletionMark = false
}

// SetVersion overwrites the version, used by repositories after a write.
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// BaseDocument is the base for documents: ledger entries and anything
// else with an audit trail. Documents record who and when; catalogs
// don't.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch refreshes UpdatedAt and bumps the version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}

// SetUpdatedAt overwrites the update timestamp, used by repositories.
func (b *BaseDocument) SetUpdatedAt(t time.Time) {
	b.UpdatedAt = t
}

// BaseCatalog is the base for catalog rows. Identical to BaseEntity for
// now; the separate type keeps catalog and document hierarchies apart.
type BaseCatalog struct {
	BaseEntity
}

func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{BaseEntity: NewBaseEntity()}
}
