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

// TenantInput carries the fields for a new lease.
type TenantInput struct {
	PropertyID  uint
	FullName    string
	Contact     string
	LeaseStart  time.Time
	LeaseEnd    *time.Time
	MonthlyRent float64
	IsAirbnb    bool
}

// TenantPatch updates a subset of tenant fields. LeaseEnd is set when a
// lease terminates; MonthlyRent covers rent corrections.
type TenantPatch struct {
	FullName    *string
	Contact     *string
	LeaseEnd    *time.Time
	MonthlyRent *float64
}

// TenantFilter narrows List results to one property when PropertyID is
// non-zero.
type TenantFilter struct {
	PropertyID uint
}

type TenantRepo interface {
	Create(ctx context.Context, input TenantInput) (*models.Tenant, error)
	Get(ctx context.Context, id uint) (*models.Tenant, error)
	Update(ctx context.Context, id uint, patch TenantPatch) (*models.Tenant, error)
	List(ctx context.Context, filter TenantFilter) ([]models.Tenant, error)
	Delete(ctx context.Context, id uint) error
}

type tenantRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewTenantRepo(st *store.Store, baseLog *logger.Logger) TenantRepo {
	return &tenantRepo{store: st, log: baseLog.With("repo", "TenantRepo")}
}

func (r *tenantRepo) Create(ctx context.Context, input TenantInput) (*models.Tenant, error) {
	var violations []string
	if input.PropertyID == 0 {
		violations = append(violations, "property_id is required")
	}
	if input.FullName == "" {
		violations = append(violations, "full_name is required")
	}
	if input.Contact == "" {
		violations = append(violations, "contact is required")
	}
	if input.LeaseStart.IsZero() {
		violations = append(violations, "lease_start is required")
	}
	if input.MonthlyRent <= 0 {
		violations = append(violations, "monthly_rent must be positive")
	}
	if input.LeaseEnd != nil && input.LeaseEnd.Before(input.LeaseStart) {
		violations = append(violations, "lease_end must not be before lease_start")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "tenant", Violations: violations}
	}

	tenant := models.Tenant{
		PropertyID:  input.PropertyID,
		FullName:    input.FullName,
		Contact:     input.Contact,
		LeaseStart:  input.LeaseStart,
		LeaseEnd:    input.LeaseEnd,
		MonthlyRent: input.MonthlyRent,
		IsAirbnb:    input.IsAirbnb,
	}
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.First(&prop, input.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &store.ReferenceError{Entity: "tenant", Parent: "property", ParentID: input.PropertyID}
			}
			return &store.StoreError{Op: "create tenant", Err: err}
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return &store.StoreError{Op: "create tenant", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("tenant created", "id", tenant.ID, "property_id", tenant.PropertyID)
	return &tenant, nil
}

func (r *tenantRepo) Get(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.store.DB().WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "tenant", ID: id}
		}
		return nil, &store.StoreError{Op: "get tenant", Err: err}
	}
	return &tenant, nil
}

func (r *tenantRepo) Update(ctx context.Context, id uint, patch TenantPatch) (*models.Tenant, error) {
	tenant, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.FullName != nil {
		if *patch.FullName == "" {
			violations = append(violations, "full_name is required")
		}
		updates["full_name"] = *patch.FullName
	}
	if patch.Contact != nil {
		if *patch.Contact == "" {
			violations = append(violations, "contact is required")
		}
		updates["contact"] = *patch.Contact
	}
	if patch.MonthlyRent != nil {
		if *patch.MonthlyRent <= 0 {
			violations = append(violations, "monthly_rent must be positive")
		}
		updates["monthly_rent"] = *patch.MonthlyRent
	}
	if patch.LeaseEnd != nil {
		if patch.LeaseEnd.Before(tenant.LeaseStart) {
			violations = append(violations, "lease_end must not be before lease_start")
		}
		updates["lease_end"] = *patch.LeaseEnd
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "tenant", Violations: violations}
	}
	if len(updates) == 0 {
		return tenant, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(tenant).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update tenant", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *tenantRepo) List(ctx context.Context, filter TenantFilter) ([]models.Tenant, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.Tenant{}).Order("id ASC")
	if filter.PropertyID != 0 {
		q = q.Where("property_id = ?", filter.PropertyID)
	}
	var tenants []models.Tenant
	if err := q.Find(&tenants).Error; err != nil {
		return nil, &store.StoreError{Op: "list tenants", Err: err}
	}
	return tenants, nil
}

func (r *tenantRepo) Delete(ctx context.Context, id uint) error {
	return r.store.DeleteTenant(ctx, id)
}
