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

// ComplianceInput carries the fields for a new compliance task. Tasks
// start in the pending state.
type ComplianceInput struct {
	Title    string
	Category string
	DueDate  time.Time
}

// CompliancePatch updates a subset of task fields. No transition order
// is enforced; callers treat done as terminal.
type CompliancePatch struct {
	Title    *string
	Category *string
	DueDate  *time.Time
	Status   *models.ComplianceStatus
}

// ComplianceFilter narrows and orders List results. NotDone excludes
// completed tasks; DueBy keeps tasks due on or before the given date.
type ComplianceFilter struct {
	Status     *models.ComplianceStatus
	NotDone    bool
	DueBy      *time.Time
	OrderByDue bool
}

type ComplianceRepo interface {
	Create(ctx context.Context, input ComplianceInput) (*models.ComplianceTask, error)
	Get(ctx context.Context, id uint) (*models.ComplianceTask, error)
	Update(ctx context.Context, id uint, patch CompliancePatch) (*models.ComplianceTask, error)
	List(ctx context.Context, filter ComplianceFilter) ([]models.ComplianceTask, error)
	Delete(ctx context.Context, id uint) error
}

type complianceRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewComplianceRepo(st *store.Store, baseLog *logger.Logger) ComplianceRepo {
	return &complianceRepo{store: st, log: baseLog.With("repo", "ComplianceRepo")}
}

func (r *complianceRepo) Create(ctx context.Context, input ComplianceInput) (*models.ComplianceTask, error) {
	var violations []string
	if input.Title == "" {
		violations = append(violations, "title is required")
	}
	if input.Category == "" {
		violations = append(violations, "category is required")
	}
	if input.DueDate.IsZero() {
		violations = append(violations, "due_date is required")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "compliance_task", Violations: violations}
	}

	task := models.ComplianceTask{
		Title:    input.Title,
		Category: input.Category,
		DueDate:  input.DueDate,
		Status:   models.CompliancePending,
	}
	if err := r.store.DB().WithContext(ctx).Create(&task).Error; err != nil {
		return nil, &store.StoreError{Op: "create compliance task", Err: err}
	}
	r.log.Info("compliance task created", "id", task.ID, "title", task.Title)
	return &task, nil
}

func (r *complianceRepo) Get(ctx context.Context, id uint) (*models.ComplianceTask, error) {
	var task models.ComplianceTask
	if err := r.store.DB().WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "compliance_task", ID: id}
		}
		return nil, &store.StoreError{Op: "get compliance task", Err: err}
	}
	return &task, nil
}

func (r *complianceRepo) Update(ctx context.Context, id uint, patch CompliancePatch) (*models.ComplianceTask, error) {
	task, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.Title != nil {
		if *patch.Title == "" {
			violations = append(violations, "title is required")
		}
		updates["title"] = *patch.Title
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			violations = append(violations, "category is required")
		}
		updates["category"] = *patch.Category
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			violations = append(violations, "status must be one of pending, done, overdue")
		}
		updates["status"] = *patch.Status
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "compliance_task", Violations: violations}
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update compliance task", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *complianceRepo) List(ctx context.Context, filter ComplianceFilter) ([]models.ComplianceTask, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.ComplianceTask{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.NotDone {
		q = q.Where("status != ?", models.ComplianceDone)
	}
	if filter.DueBy != nil {
		q = q.Where("due_date <= ?", *filter.DueBy)
	}
	if filter.OrderByDue {
		q = q.Order("due_date ASC, id ASC")
	} else {
		q = q.Order("id ASC")
	}
	var tasks []models.ComplianceTask
	if err := q.Find(&tasks).Error; err != nil {
		return nil, &store.StoreError{Op: "list compliance tasks", Err: err}
	}
	return tasks, nil
}

func (r *complianceRepo) Delete(ctx context.Context, id uint) error {
	res := r.store.DB().WithContext(ctx).Delete(&models.ComplianceTask{}, id)
	if res.Error != nil {
		return &store.StoreError{Op: "delete compliance task", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{Entity: "compliance_task", ID: id}
	}
	return nil
}
