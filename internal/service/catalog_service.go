package service

import (
	"fmt"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages products and categories. Every mutation carries its
// audit entry in the same transaction (modules Inventory and Category).
type CatalogService interface {
	CreateProduct(req *model.Product, actor string) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor string) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	CreateCategory(req *model.Category, actor string) error
	UpdateCategory(id uuid.UUID, name, actor string) (*model.Category, error)
	DeleteCategory(id uuid.UUID, actor string) error
	GetAllCategories() ([]model.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	audit        AuditService
	db           *gorm.DB
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, audit AuditService, db *gorm.DB) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		audit:        audit,
		db:           db,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return err
		}
	}

	// A freshly registered product starts with its baseline on hand.
	if req.CurrentStock == 0 {
		req.CurrentStock = req.OpeningStock
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, req); err != nil {
			return err
		}
		return s.audit.Record(tx, req.ID.String(), model.ModuleInventory, model.ActionCreate, nil, req, actor)
	})
}

// UpdateProduct rewrites the editable fields and logs a full before/after
// snapshot. OpeningStock is the immutable baseline and is never touched here;
// CurrentStock may be corrected directly through this audited path only.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actor string) (*model.Product, error) {
	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		old := *existing

		if req.CurrentStock < 0 {
			return model.ErrInsufficientStock
		}
		existing.Name = req.Name
		existing.CategoryID = req.CategoryID
		existing.CostPrice = req.CostPrice
		existing.SellPrice = req.SellPrice
		existing.CurrentStock = req.CurrentStock
		existing.Image = req.Image
		existing.UpdatedBy = actor

		if err := s.productRepo.Update(tx, existing); err != nil {
			return err
		}
		if err := s.audit.Record(tx, id.String(), model.ModuleInventory, model.ActionUpdate, old, existing, actor); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.audit.Record(tx, id.String(), model.ModuleInventory, model.ActionDelete, existing, nil, actor)
	})
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *catalogService) CreateCategory(req *model.Category, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.categoryRepo.Create(tx, req); err != nil {
			return err
		}
		return s.audit.Record(tx, req.ID.String(), model.ModuleCategory, model.ActionCreate, nil, req, actor)
	})
}

func (s *catalogService) UpdateCategory(id uuid.UUID, name, actor string) (*model.Category, error) {
	var updated *model.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.categoryRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		old := *existing

		existing.Name = name
		existing.UpdatedBy = actor
		if err := s.categoryRepo.Update(tx, existing); err != nil {
			return err
		}
		if err := s.audit.Record(tx, id.String(), model.ModuleCategory, model.ActionUpdate, old, existing, actor); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory refuses to remove a category while products still point at
// it.
func (s *catalogService) DeleteCategory(id uuid.UUID, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.categoryRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		count, err := s.productRepo.CountByCategory(tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return model.ErrCategoryInUse
		}
		if err := s.categoryRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.audit.Record(tx, id.String(), model.ModuleCategory, model.ActionDelete, existing, nil, actor)
	})
}

func (s *catalogService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}
