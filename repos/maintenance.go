package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
	"github.com/nyumba-labs/propops/store"
)

// MaintenanceInput carries the fields for a new maintenance request.
// Requests start in the open state.
type MaintenanceInput struct {
	PropertyID  uint
	Description string
	Vendor      string
}

// MaintenancePatch updates a subset of request fields. Any status or
// vendor change refreshes UpdatedAt.
type MaintenancePatch struct {
	Description *string
	Status      *models.MaintenanceStatus
	Vendor      *string
}

// MaintenanceFilter narrows List results. OpenOnly excludes closed
// requests.
type MaintenanceFilter struct {
	PropertyID uint
	OpenOnly   bool
}

type MaintenanceRepo interface {
	Create(ctx context.Context, input MaintenanceInput) (*models.MaintenanceRequest, error)
	Get(ctx context.Context, id uint) (*models.MaintenanceRequest, error)
	Update(ctx context.Context, id uint, patch MaintenancePatch) (*models.MaintenanceRequest, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]models.MaintenanceRequest, error)
	Delete(ctx context.Context, id uint) error
}

type maintenanceRepo struct {
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewMaintenanceRepo(st *store.Store, baseLog *logger.Logger) MaintenanceRepo {
	return &maintenanceRepo{
		store: st,
		log:   baseLog.With("repo", "MaintenanceRepo"),
		now:   time.Now,
	}
}

func (r *maintenanceRepo) Create(ctx context.Context, input MaintenanceInput) (*models.MaintenanceRequest, error) {
	var violations []string
	if input.PropertyID == 0 {
		violations = append(violations, "property_id is required")
	}
	if input.Description == "" {
		violations = append(violations, "description is required")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "maintenance_request", Violations: violations}
	}

	now := r.now().UTC()
	request := models.MaintenanceRequest{
		PropertyID:  input.PropertyID,
		Description: input.Description,
		Status:      models.MaintenanceOpen,
		Vendor:      input.Vendor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.First(&prop, input.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &store.ReferenceError{Entity: "maintenance_request", Parent: "property", ParentID: input.PropertyID}
			}
			return &store.StoreError{Op: "create maintenance request", Err: err}
		}
		if err := tx.Create(&request).Error; err != nil {
			return &store.StoreError{Op: "create maintenance request", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("maintenance request created", "id", request.ID, "property_id", request.PropertyID)
	return &request, nil
}

func (r *maintenanceRepo) Get(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := r.store.DB().WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "maintenance_request", ID: id}
		}
		return nil, &store.StoreError{Op: "get maintenance request", Err: err}
	}
	return &request, nil
}

func (r *maintenanceRepo) Update(ctx context.Context, id uint, patch MaintenancePatch) (*models.MaintenanceRequest, error) {
	request, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.Description != nil {
		if *patch.Description == "" {
			violations = append(violations, "description is required")
		}
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			violations = append(violations, "status must be one of open, in-progress, closed")
		}
		updates["status"] = *patch.Status
	}
	if patch.Vendor != nil {
		updates["vendor"] = *patch.Vendor
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "maintenance_request", Violations: violations}
	}
	if len(updates) == 0 {
		return request, nil
	}
	updates["updated_at"] = r.now().UTC()

	if err := r.store.DB().WithContext(ctx).Model(request).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update maintenance request", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *maintenanceRepo) List(ctx context.Context, filter MaintenanceFilter) ([]models.MaintenanceRequest, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.MaintenanceRequest{}).Order("id ASC")
	if filter.PropertyID != 0 {
		q = q.Where("property_id = ?", filter.PropertyID)
	}
	if filter.OpenOnly {
		q = q.Where("status != ?", models.MaintenanceClosed)
	}
	var requests []models.MaintenanceRequest
	if err := q.Find(&requests).Error; err != nil {
		return nil, &store.StoreError{Op: "list maintenance requests", Err: err}
	}
	return requests, nil
}

func (r *maintenanceRepo) Delete(ctx context.Context, id uint) error {
	res := r.store.DB().WithContext(ctx).Delete(&models.MaintenanceRequest{}, id)
	if res.Error != nil {
		return &store.StoreError{Op: "delete maintenance request", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{Entity: "maintenance_request", ID: id}
	}
	return nil
}
