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

// InvoiceInput carries the fields for a new rent invoice. Status
// defaults to pending; a paid invoice must carry its paid date.
type InvoiceInput struct {
	TenantID uint
	Amount   float64
	DueDate  time.Time
	Status   models.InvoiceStatus
	PaidDate *time.Time
}

// InvoicePatch updates a subset of invoice fields. A transition to
// paid requires PaidDate; a transition away from paid clears it.
type InvoicePatch struct {
	Amount   *float64
	DueDate  *time.Time
	Status   *models.InvoiceStatus
	PaidDate *time.Time
}

// InvoiceFilter narrows and orders List results.
type InvoiceFilter struct {
	TenantID       uint
	Status         *models.InvoiceStatus
	UnpaidOnly     bool
	DueBefore      *time.Time
	OrderByDueDate bool
}

type InvoiceRepo interface {
	Create(ctx context.Context, input InvoiceInput) (*models.RentInvoice, error)
	Get(ctx context.Context, id uint) (*models.RentInvoice, error)
	Update(ctx context.Context, id uint, patch InvoicePatch) (*models.RentInvoice, error)
	// MarkPaid records a payment, setting status to paid with the given
	// paid date.
	MarkPaid(ctx context.Context, id uint, paidDate time.Time) (*models.RentInvoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]models.RentInvoice, error)
	Delete(ctx context.Context, id uint) error
}

type invoiceRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewInvoiceRepo(st *store.Store, baseLog *logger.Logger) InvoiceRepo {
	return &invoiceRepo{store: st, log: baseLog.With("repo", "InvoiceRepo")}
}

func (r *invoiceRepo) Create(ctx context.Context, input InvoiceInput) (*models.RentInvoice, error) {
	status := input.Status
	if status == "" {
		status = models.InvoicePending
	}

	var violations []string
	if input.TenantID == 0 {
		violations = append(violations, "tenant_id is required")
	}
	if input.Amount < 0 {
		violations = append(violations, "amount must not be negative")
	}
	if input.DueDate.IsZero() {
		violations = append(violations, "due_date is required")
	}
	if !status.Valid() {
		violations = append(violations, "status must be one of pending, paid, overdue")
	}
	if status == models.InvoicePaid && input.PaidDate == nil {
		violations = append(violations, "paid_date is required when status is paid")
	}
	if status != models.InvoicePaid && input.PaidDate != nil {
		violations = append(violations, "paid_date requires status paid")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "rent_invoice", Violations: violations}
	}

	invoice := models.RentInvoice{
		TenantID: input.TenantID,
		Amount:   input.Amount,
		DueDate:  input.DueDate,
		Status:   status,
		PaidDate: input.PaidDate,
	}
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, input.TenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &store.ReferenceError{Entity: "rent_invoice", Parent: "tenant", ParentID: input.TenantID}
			}
			return &store.StoreError{Op: "create invoice", Err: err}
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return &store.StoreError{Op: "create invoice", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("invoice created", "id", invoice.ID, "tenant_id", invoice.TenantID, "amount", invoice.Amount)
	return &invoice, nil
}

func (r *invoiceRepo) Get(ctx context.Context, id uint) (*models.RentInvoice, error) {
	var invoice models.RentInvoice
	if err := r.store.DB().WithContext(ctx).First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "rent_invoice", ID: id}
		}
		return nil, &store.StoreError{Op: "get invoice", Err: err}
	}
	return &invoice, nil
}

func (r *invoiceRepo) Update(ctx context.Context, id uint, patch InvoicePatch) (*models.RentInvoice, error) {
	invoice, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.Amount != nil {
		if *patch.Amount < 0 {
			violations = append(violations, "amount must not be negative")
		}
		updates["amount"] = *patch.Amount
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	switch {
	case patch.Status != nil && !patch.Status.Valid():
		violations = append(violations, "status must be one of pending, paid, overdue")
	case patch.Status != nil && *patch.Status == models.InvoicePaid:
		if patch.PaidDate == nil {
			violations = append(violations, "paid_date is required when status is paid")
		} else {
			updates["status"] = models.InvoicePaid
			updates["paid_date"] = *patch.PaidDate
		}
	case patch.Status != nil:
		// Moving off paid (or between unpaid states) always clears the
		// paid date so the paid_date-iff-paid invariant holds.
		if patch.PaidDate != nil {
			violations = append(violations, "paid_date requires status paid")
		}
		updates["status"] = *patch.Status
		updates["paid_date"] = nil
	case patch.PaidDate != nil:
		if invoice.Status != models.InvoicePaid {
			violations = append(violations, "paid_date requires status paid")
		} else {
			updates["paid_date"] = *patch.PaidDate
		}
	}

	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "rent_invoice", Violations: violations}
	}
	if len(updates) == 0 {
		return invoice, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(invoice).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update invoice", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, id uint, paidDate time.Time) (*models.RentInvoice, error) {
	status := models.InvoicePaid
	return r.Update(ctx, id, InvoicePatch{Status: &status, PaidDate: &paidDate})
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]models.RentInvoice, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.RentInvoice{})
	if filter.TenantID != 0 {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.UnpaidOnly {
		q = q.Where("status != ?", models.InvoicePaid)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.OrderByDueDate {
		q = q.Order("due_date ASC, id ASC")
	} else {
		q = q.Order("id ASC")
	}
	var invoices []models.RentInvoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, &store.StoreError{Op: "list invoices", Err: err}
	}
	return invoices, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uint) error {
	res := r.store.DB().WithContext(ctx).Delete(&models.RentInvoice{}, id)
	if res.Error != nil {
		return &store.StoreError{Op: "delete invoice", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{Entity: "rent_invoice", ID: id}
	}
	return nil
}
