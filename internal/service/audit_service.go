package service

import (
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"gorm.io/gorm"
)

// AuditService writes the before/after record that must accompany every
// mutation. Record runs inside the caller's transaction: if the append fails
// the whole unit rolls back, so a committed mutation always has its entry.
type AuditService interface {
	Record(tx *gorm.DB, targetID string, module model.AuditModule, action model.AuditAction, oldState, newState interface{}, changedBy string) error
	ListRecent(limit int) ([]model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(tx *gorm.DB, targetID string, module model.AuditModule, action model.AuditAction, oldState, newState interface{}, changedBy string) error {
	oldSnap, err := model.NewSnapshot(oldState)
	if err != nil {
		return err
	}
	newSnap, err := model.NewSnapshot(newState)
	if err != nil {
		return err
	}
	return s.auditRepo.Append(tx, &model.AuditLog{
		TargetID:  targetID,
		Module:    module,
		Action:    action,
		OldState:  oldSnap,
		NewState:  newSnap,
		ChangedBy: changedBy,
	})
}

func (s *auditService) ListRecent(limit int) ([]model.AuditLog, error) {
	return s.auditRepo.ListRecent(limit)
}
