// Package analytics computes derived read-only views over the store.
// It never mutates rows: overdue is always classified against the
// caller's as-of time, not stored back.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
	"github.com/nyumba-labs/propops/store"
)

// Service joins repository data into portfolio summaries.
type Service struct {
	store *store.Store
	log   *logger.Logger
}

func NewService(st *store.Store, baseLog *logger.Logger) *Service {
	return &Service{store: st, log: baseLog.With("service", "analytics")}
}

// PropertyRentSummary is the paid/outstanding roll-up for one property.
// Properties without tenants or invoices report zero for both sums.
type PropertyRentSummary struct {
	PropertyID  uint    `json:"property_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

// RentOptions controls RentByProperty ordering. The default is property
// insertion order.
type RentOptions struct {
	OrderByName bool
}

// RentByProperty sums invoice amounts per property, splitting paid
// (status = paid) from outstanding (every other status).
func (s *Service) RentByProperty(ctx context.Context, opts RentOptions) ([]PropertyRentSummary, error) {
	order := "properties.id ASC"
	if opts.OrderByName {
		order = "properties.name ASC"
	}

	var rows []PropertyRentSummary
	err := s.store.DB().WithContext(ctx).
		Table("properties").
		Select(`properties.id AS property_id, properties.name, properties.category, properties.location,
			COALESCE(SUM(CASE WHEN rent_invoices.status = ? THEN rent_invoices.amount END), 0) AS paid,
			COALESCE(SUM(CASE WHEN rent_invoices.status != ? THEN rent_invoices.amount END), 0) AS outstanding`,
			models.InvoicePaid, models.InvoicePaid).
		Joins("LEFT JOIN tenants ON tenants.property_id = properties.id").
		Joins("LEFT JOIN rent_invoices ON rent_invoices.tenant_id = tenants.id").
		Group("properties.id, properties.name, properties.category, properties.location").
		Order(order).
		Scan(&rows).Error
	if err != nil {
		return nil, &store.StoreError{Op: "rent by property", Err: err}
	}
	return rows, nil
}

// TenantSummary is the paid/outstanding roll-up for one tenant together
// with the lease status derived at the as-of date.
type TenantSummary struct {
	TenantID    uint    `json:"tenant_id"`
	PropertyID  uint    `json:"property_id"`
	FullName    string  `json:"full_name"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
	LeaseStatus string  `json:"lease_status"` // "active" or "ended"
}

// TenantSummaries rolls up invoices per tenant. A lease is active when
// it has no end date or ends after asOf.
func (s *Service) TenantSummaries(ctx context.Context, asOf time.Time) ([]TenantSummary, error) {
	type tenantRow struct {
		TenantID    uint
		PropertyID  uint
		FullName    string
		Paid        float64
		Outstanding float64
		LeaseEnd    *time.Time
	}
	var rows []tenantRow
	err := s.store.DB().WithContext(ctx).
		Table("tenants").
		Select(`tenants.id AS tenant_id, tenants.property_id, tenants.full_name, tenants.lease_end,
			COALESCE(SUM(CASE WHEN rent_invoices.status = ? THEN rent_invoices.amount END), 0) AS paid,
			COALESCE(SUM(CASE WHEN rent_invoices.status != ? THEN rent_invoices.amount END), 0) AS outstanding`,
			models.InvoicePaid, models.InvoicePaid).
		Joins("LEFT JOIN rent_invoices ON rent_invoices.tenant_id = tenants.id").
		Group("tenants.id, tenants.property_id, tenants.full_name, tenants.lease_end").
		Order("tenants.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, &store.StoreError{Op: "tenant summaries", Err: err}
	}

	summaries := make([]TenantSummary, 0, len(rows))
	for _, row := range rows {
		status := "active"
		if row.LeaseEnd != nil && !row.LeaseEnd.After(asOf) {
			status = "ended"
		}
		summaries = append(summaries, TenantSummary{
			TenantID:    row.TenantID,
			PropertyID:  row.PropertyID,
			FullName:    row.FullName,
			Paid:        row.Paid,
			Outstanding: row.Outstanding,
			LeaseStatus: status,
		})
	}
	return summaries, nil
}

// ArrearsEntry is one tenant with overdue unpaid invoices.
type ArrearsEntry struct {
	TenantID      uint      `json:"tenant_id"`
	PropertyID    uint      `json:"property_id"`
	FullName      string    `json:"full_name"`
	EarliestDue   time.Time `json:"earliest_due"`
	OverdueAmount float64   `json:"overdue_amount"`
	OverdueCount  int       `json:"overdue_count"`
}

// Arrears lists tenants holding at least one unpaid invoice due
// strictly before asOf, ordered by earliest overdue due date, then
// tenant id.
func (s *Service) Arrears(ctx context.Context, asOf time.Time) ([]ArrearsEntry, error) {
	var overdue []models.RentInvoice
	err := s.store.DB().WithContext(ctx).
		Where("status != ? AND due_date < ?", models.InvoicePaid, asOf).
		Order("due_date ASC, id ASC").
		Find(&overdue).Error
	if err != nil {
		return nil, &store.StoreError{Op: "arrears", Err: err}
	}
	if len(overdue) == 0 {
		return []ArrearsEntry{}, nil
	}

	byTenant := make(map[uint]*ArrearsEntry)
	for _, invoice := range overdue {
		entry, ok := byTenant[invoice.TenantID]
		if !ok {
			// Invoices arrive due-date ascending, so the first one seen
			// per tenant carries the earliest overdue date.
			entry = &ArrearsEntry{TenantID: invoice.TenantID, EarliestDue: invoice.DueDate}
			byTenant[invoice.TenantID] = entry
		}
		entry.OverdueAmount += invoice.Amount
		entry.OverdueCount++
	}

	tenantIDs := make([]uint, 0, len(byTenant))
	for id := range byTenant {
		tenantIDs = append(tenantIDs, id)
	}
	var tenants []models.Tenant
	if err := s.store.DB().WithContext(ctx).Where("id IN ?", tenantIDs).Find(&tenants).Error; err != nil {
		return nil, &store.StoreError{Op: "arrears", Err: err}
	}
	for _, tenant := range tenants {
		byTenant[tenant.ID].PropertyID = tenant.PropertyID
		byTenant[tenant.ID].FullName = tenant.FullName
	}

	entries := make([]ArrearsEntry, 0, len(byTenant))
	for _, entry := range byTenant {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EarliestDue.Equal(entries[j].EarliestDue) {
			return entries[i].EarliestDue.Before(entries[j].EarliestDue)
		}
		return entries[i].TenantID < entries[j].TenantID
	})
	return entries, nil
}

// DueItemKind tags an upcoming due item with its source.
type DueItemKind string

const (
	DueMessage    DueItemKind = "message"
	DueCompliance DueItemKind = "compliance"
)

// DueItem is one upcoming obligation: a scheduled message waiting to be
// sent or a compliance task not yet done.
type DueItem struct {
	Kind  DueItemKind `json:"kind"`
	ID    uint        `json:"id"`
	Due   time.Time   `json:"due"`
	Label string      `json:"label"`
}

// UpcomingDue merges scheduled messages (status scheduled, send_at
// within the horizon) with open compliance tasks (status not done, due
// within the horizon) into one date-ordered list.
func (s *Service) UpcomingDue(ctx context.Context, until time.Time) ([]DueItem, error) {
	var messages []models.ScheduledMessage
	err := s.store.DB().WithContext(ctx).
		Where("status = ? AND send_at <= ?", models.MessageScheduled, until).
		Order("send_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, &store.StoreError{Op: "upcoming messages", Err: err}
	}

	var tasks []models.ComplianceTask
	err = s.store.DB().WithContext(ctx).
		Where("status != ? AND due_date <= ?", models.ComplianceDone, until).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, &store.StoreError{Op: "upcoming compliance tasks", Err: err}
	}

	items := make([]DueItem, 0, len(messages)+len(tasks))
	for _, msg := range messages {
		items = append(items, DueItem{Kind: DueMessage, ID: msg.ID, Due: msg.SendAt, Label: msg.Template})
	}
	for _, task := range tasks {
		items = append(items, DueItem{Kind: DueCompliance, ID: task.ID, Due: task.DueDate, Label: task.Title})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Due.Equal(items[j].Due) {
			return items[i].Due.Before(items[j].Due)
		}
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// PortfolioTotals is the portfolio-wide headline roll-up.
type PortfolioTotals struct {
	Tenants         int64   `json:"tenants"`
	MonthlyRentRoll float64 `json:"monthly_rent_roll"`
	AirbnbTenants   int64   `json:"airbnb_tenants"`
	Outstanding     float64 `json:"outstanding"`
}

// PortfolioTotals counts tenants and sums rent roll and unpaid invoice
// amounts across the whole portfolio.
func (s *Service) PortfolioTotals(ctx context.Context) (*PortfolioTotals, error) {
	type tenantTotals struct {
		Tenants         int64
		MonthlyRentRoll float64
		AirbnbTenants   int64
	}
	var tt tenantTotals
	err := s.store.DB().WithContext(ctx).
		Table("tenants").
		Select(`COUNT(*) AS tenants,
			COALESCE(SUM(monthly_rent), 0) AS monthly_rent_roll,
			COALESCE(SUM(CASE WHEN is_airbnb THEN 1 ELSE 0 END), 0) AS airbnb_tenants`).
		Scan(&tt).Error
	if err != nil {
		return nil, &store.StoreError{Op: "portfolio totals", Err: err}
	}

	var outstanding float64
	err = s.store.DB().WithContext(ctx).
		Table("rent_invoices").
		Select("COALESCE(SUM(amount), 0)").
		Where("status != ?", models.InvoicePaid).
		Scan(&outstanding).Error
	if err != nil {
		return nil, &store.StoreError{Op: "portfolio totals", Err: err}
	}

	return &PortfolioTotals{
		Tenants:         tt.Tenants,
		MonthlyRentRoll: tt.MonthlyRentRoll,
		AirbnbTenants:   tt.AirbnbTenants,
		Outstanding:     outstanding,
	}, nil
}
