package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
	"github.com/nyumba-labs/propops/store"
)

// PropertyInput carries the fields for a new property. Units defaults
// to 1 when left zero.
type PropertyInput struct {
	Name     string
	Category string
	Location string
	Units    int
}

// PropertyPatch updates a subset of property fields.
type PropertyPatch struct {
	Name     *string
	Category *string
	Location *string
	Units    *int
}

// PropertyFilter narrows and orders List results.
type PropertyFilter struct {
	Category    string
	OrderByName bool
}

type PropertyRepo interface {
	Create(ctx context.Context, input PropertyInput) (*models.Property, error)
	Get(ctx context.Context, id uint) (*models.Property, error)
	Update(ctx context.Context, id uint, patch PropertyPatch) (*models.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]models.Property, error)
	Delete(ctx context.Context, id uint) error
}

type propertyRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewPropertyRepo(st *store.Store, baseLog *logger.Logger) PropertyRepo {
	return &propertyRepo{store: st, log: baseLog.With("repo", "PropertyRepo")}
}

func (r *propertyRepo) Create(ctx context.Context, input PropertyInput) (*models.Property, error) {
	var violations []string
	if input.Name == "" {
		violations = append(violations, "name is required")
	}
	if input.Category == "" {
		violations = append(violations, "category is required")
	}
	if input.Location == "" {
		violations = append(violations, "location is required")
	}
	if input.Units < 0 {
		violations = append(violations, "units must be at least 1")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "property", Violations: violations}
	}

	units := input.Units
	if units == 0 {
		units = 1
	}
	prop := models.Property{
		Name:     input.Name,
		Category: input.Category,
		Location: input.Location,
		Units:    units,
	}
	if err := r.store.DB().WithContext(ctx).Create(&prop).Error; err != nil {
		return nil, &store.StoreError{Op: "create property", Err: err}
	}
	r.log.Info("property created", "id", prop.ID, "name", prop.Name)
	return &prop, nil
}

func (r *propertyRepo) Get(ctx context.Context, id uint) (*models.Property, error) {
	var prop models.Property
	if err := r.store.DB().WithContext(ctx).First(&prop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "property", ID: id}
		}
		return nil, &store.StoreError{Op: "get property", Err: err}
	}
	return &prop, nil
}

func (r *propertyRepo) Update(ctx context.Context, id uint, patch PropertyPatch) (*models.Property, error) {
	prop, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.Name != nil {
		if *patch.Name == "" {
			violations = append(violations, "name is required")
		}
		updates["name"] = *patch.Name
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			violations = append(violations, "category is required")
		}
		updates["category"] = *patch.Category
	}
	if patch.Location != nil {
		if *patch.Location == "" {
			violations = append(violations, "location is required")
		}
		updates["location"] = *patch.Location
	}
	if patch.Units != nil {
		if *patch.Units < 1 {
			violations = append(violations, "units must be at least 1")
		}
		updates["units"] = *patch.Units
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "property", Violations: violations}
	}
	if len(updates) == 0 {
		return prop, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(prop).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update property", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *propertyRepo) List(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.Property{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.OrderByName {
		q = q.Order("name ASC")
	} else {
		q = q.Order("id ASC")
	}
	var props []models.Property
	if err := q.Find(&props).Error; err != nil {
		return nil, &store.StoreError{Op: "list properties", Err: err}
	}
	return props, nil
}

func (r *propertyRepo) Delete(ctx context.Context, id uint) error {
	return r.store.DeleteProperty(ctx, id)
}
