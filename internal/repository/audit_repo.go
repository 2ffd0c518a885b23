package repository

import (
	"go-stockledger/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(tx *gorm.DB, entry *model.AuditLog) error
	ListRecent(limit int) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

// Append is a pure insert. It runs inside the caller's transaction so a
// failed append aborts the mutation it records.
func (r *auditRepo) Append(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepo) ListRecent(limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var entries []model.AuditLog
	err := r.db.Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
