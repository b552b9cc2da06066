package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumba-labs/propops/analytics"
	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/repos"
	"github.com/nyumba-labs/propops/store"
)

type fixture struct {
	store      *store.Store
	service    *analytics.Service
	properties repos.PropertyRepo
	tenants    repos.TenantRepo
	invoices   repos.InvoiceRepo
	messages   repos.MessageRepo
	compliance repos.ComplianceRepo
}

func newFixture(t *testing.T) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	st := store.NewWithDB(db, logger.NewNop())
	require.NoError(t, st.Init(context.Background()))

	log := logger.NewNop()
	return &fixture{
		store:      st,
		service:    analytics.NewService(st, log),
		properties: repos.NewPropertyRepo(st, log),
		tenants:    repos.NewTenantRepo(st, log),
		invoices:   repos.NewInvoiceRepo(st, log),
		messages:   repos.NewMessageRepo(st, log),
		compliance: repos.NewComplianceRepo(st, log),
	}
}

func (f *fixture) property(t *testing.T, name string) uint {
	t.Helper()
	prop, err := f.properties.Create(context.Background(), repos.PropertyInput{
		Name: name, Category: "Airbnb", Location: "Nairobi", Units: 6,
	})
	require.NoError(t, err)
	return prop.ID
}

func (f *fixture) tenant(t *testing.T, propertyID uint, name string, leaseEnd *time.Time) uint {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), repos.TenantInput{
		PropertyID:  propertyID,
		FullName:    name,
		Contact:     "+254700000000",
		LeaseStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEnd:    leaseEnd,
		MonthlyRent: 65000,
	})
	require.NoError(t, err)
	return tenant.ID
}

func (f *fixture) invoice(t *testing.T, tenantID uint, amount float64, due time.Time) uint {
	t.Helper()
	invoice, err := f.invoices.Create(context.Background(), repos.InvoiceInput{
		TenantID: tenantID, Amount: amount, DueDate: due,
	})
	require.NoError(t, err)
	return invoice.ID
}

func TestRentByPropertyZeroTenants(t *testing.T) {
	f := newFixture(t)
	f.property(t, "Empty Court")

	rows, err := f.service.RentByProperty(context.Background(), analytics.RentOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Paid)
	assert.Zero(t, rows[0].Outstanding)
}

func TestRentByPropertyEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propID := f.property(t, "Kilimani Suites")
	tenantID := f.tenant(t, propID, "Alice Naliaka", nil)
	invoiceID := f.invoice(t, tenantID, 65000, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	rows, err := f.service.RentByProperty(ctx, analytics.RentOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Paid)
	assert.Equal(t, 65000.0, rows[0].Outstanding)

	_, err = f.invoices.MarkPaid(ctx, invoiceID, time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rows, err = f.service.RentByProperty(ctx, analytics.RentOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 65000.0, rows[0].Paid)
	assert.Equal(t, 0.0, rows[0].Outstanding)
}

func TestRentByPropertyOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.property(t, "Zanzibar Court")
	f.property(t, "Acacia Park")

	rows, err := f.service.RentByProperty(ctx, analytics.RentOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Zanzibar Court", rows[0].Name) // insertion order

	rows, err = f.service.RentByProperty(ctx, analytics.RentOptions{OrderByName: true})
	require.NoError(t, err)
	assert.Equal(t, "Acacia Park", rows[0].Name)
}

func TestTenantSummariesLeaseStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propID := f.property(t, "Kilimani Suites")
	ended := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	activeID := f.tenant(t, propID, "Alice Naliaka", nil)
	endedID := f.tenant(t, propID, "Brian Kimani", &ended)

	paidDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	invoiceID := f.invoice(t, activeID, 65000, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	_, err := f.invoices.MarkPaid(ctx, invoiceID, paidDate)
	require.NoError(t, err)
	f.invoice(t, endedID, 65000, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	asOf := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	summaries, err := f.service.TenantSummaries(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, activeID, summaries[0].TenantID)
	assert.Equal(t, "active", summaries[0].LeaseStatus)
	assert.Equal(t, 65000.0, summaries[0].Paid)
	assert.Equal(t, 0.0, summaries[0].Outstanding)

	assert.Equal(t, endedID, summaries[1].TenantID)
	assert.Equal(t, "ended", summaries[1].LeaseStatus)
	assert.Equal(t, 65000.0, summaries[1].Outstanding)
}

func TestArrearsOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propID := f.property(t, "Kilimani Suites")
	first := f.tenant(t, propID, "Tenant Due Jan 5", nil)
	second := f.tenant(t, propID, "Tenant Due Jan 10", nil)
	third := f.tenant(t, propID, "Tenant Due Jan 1", nil)

	f.invoice(t, first, 1000, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	f.invoice(t, second, 1000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	f.invoice(t, third, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.service.Arrears(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Ascending by earliest overdue due date.
	assert.Equal(t, third, entries[0].TenantID)
	assert.Equal(t, first, entries[1].TenantID)
	assert.Equal(t, second, entries[2].TenantID)
}

func TestArrearsExcludesPaidAndFuture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propID := f.property(t, "Kilimani Suites")
	tenantID := f.tenant(t, propID, "Alice Naliaka", nil)

	paidID := f.invoice(t, tenantID, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err := f.invoices.MarkPaid(ctx, paidID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	f.invoice(t, tenantID, 1000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	// As-of sits between the paid invoice and the future one; the due
	// date comparison is strict, so nothing is overdue.
	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.service.Arrears(ctx, asOf)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpcomingDueMergesAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.Create(ctx, repos.MessageInput{
		Recipient: "+254712345678", Channel: "sms", Template: "Rent reminder",
		SendAt: time.Date(2024, 10, 5, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	late, err := f.messages.Create(ctx, repos.MessageInput{
		Recipient: "+254712345678", Channel: "sms", Template: "Late reminder",
		SendAt: time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	sentMsg, err := f.messages.Create(ctx, repos.MessageInput{
		Recipient: "+254712345678", Channel: "sms", Template: "Already sent",
		SendAt: time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = f.messages.MarkSent(ctx, sentMsg.ID)
	require.NoError(t, err)

	_, err = f.compliance.Create(ctx, repos.ComplianceInput{
		Title: "File KRA return", Category: "KRA",
		DueDate: time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	until := time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC)
	items, err := f.service.UpcomingDue(ctx, until)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, analytics.DueCompliance, items[0].Kind)
	assert.Equal(t, "File KRA return", items[0].Label)
	assert.Equal(t, analytics.DueMessage, items[1].Kind)
	assert.Equal(t, "Rent reminder", items[1].Label)

	// Outside the horizon, the late reminder never shows up.
	for _, item := range items {
		assert.NotEqual(t, late.ID, item.ID)
	}
}

func TestPortfolioTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propID := f.property(t, "Kilimani Suites")
	airbnb, err := f.tenants.Create(ctx, repos.TenantInput{
		PropertyID:  propID,
		FullName:    "Alice Naliaka",
		Contact:     "+254712345678",
		LeaseStart:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 72000,
		IsAirbnb:    true,
	})
	require.NoError(t, err)
	f.tenant(t, propID, "Brian Kimani", nil)

	f.invoice(t, airbnb.ID, 72000, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	totals, err := f.service.PortfolioTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Tenants)
	assert.Equal(t, 137000.0, totals.MonthlyRentRoll)
	assert.Equal(t, int64(1), totals.AirbnbTenants)
	assert.Equal(t, 72000.0, totals.Outstanding)
}

func TestRentByPropertyStoreFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	dialector := postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	st := store.NewWithDB(db, logger.NewNop())
	service := analytics.NewService(st, logger.NewNop())

	_, err = service.RentByProperty(context.Background(), analytics.RentOptions{})
	require.Error(t, err)

	var se *store.StoreError
	assert.ErrorAs(t, err, &se)
}
