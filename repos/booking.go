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

// BookingInput carries the fields for a new guest booking.
type BookingInput struct {
	PropertyID uint
	GuestName  string
	CheckIn    time.Time
	CheckOut   time.Time
	Payout     float64
}

// BookingPatch updates a subset of booking fields. Stay dates are
// validated against the merged result, so either end can move alone.
type BookingPatch struct {
	GuestName *string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Payout    *float64
}

// BookingFilter narrows List results to one property when PropertyID
// is non-zero.
type BookingFilter struct {
	PropertyID uint
}

type BookingRepo interface {
	Create(ctx context.Context, input BookingInput) (*models.GuestBooking, error)
	Get(ctx context.Context, id uint) (*models.GuestBooking, error)
	Update(ctx context.Context, id uint, patch BookingPatch) (*models.GuestBooking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.GuestBooking, error)
	Delete(ctx context.Context, id uint) error
}

type bookingRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewBookingRepo(st *store.Store, baseLog *logger.Logger) BookingRepo {
	return &bookingRepo{store: st, log: baseLog.With("repo", "BookingRepo")}
}

func (r *bookingRepo) Create(ctx context.Context, input BookingInput) (*models.GuestBooking, error) {
	var violations []string
	if input.PropertyID == 0 {
		violations = append(violations, "property_id is required")
	}
	if input.GuestName == "" {
		violations = append(violations, "guest_name is required")
	}
	if input.CheckIn.IsZero() {
		violations = append(violations, "check_in is required")
	}
	if input.CheckOut.IsZero() {
		violations = append(violations, "check_out is required")
	}
	if !input.CheckIn.IsZero() && !input.CheckOut.IsZero() && !input.CheckOut.After(input.CheckIn) {
		violations = append(violations, "check_out must be after check_in")
	}
	if input.Payout < 0 {
		violations = append(violations, "payout must not be negative")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "guest_booking", Violations: violations}
	}

	booking := models.GuestBooking{
		PropertyID: input.PropertyID,
		GuestName:  input.GuestName,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Payout:     input.Payout,
	}
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.First(&prop, input.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &store.ReferenceError{Entity: "guest_booking", Parent: "property", ParentID: input.PropertyID}
			}
			return &store.StoreError{Op: "create booking", Err: err}
		}
		if err := tx.Create(&booking).Error; err != nil {
			return &store.StoreError{Op: "create booking", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("booking created", "id", booking.ID, "property_id", booking.PropertyID)
	return &booking, nil
}

func (r *bookingRepo) Get(ctx context.Context, id uint) (*models.GuestBooking, error) {
	var booking models.GuestBooking
	if err := r.store.DB().WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "guest_booking", ID: id}
		}
		return nil, &store.StoreError{Op: "get booking", Err: err}
	}
	return &booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, id uint, patch BookingPatch) (*models.GuestBooking, error) {
	booking, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	checkIn := booking.CheckIn
	checkOut := booking.CheckOut
	if patch.CheckIn != nil {
		checkIn = *patch.CheckIn
	}
	if patch.CheckOut != nil {
		checkOut = *patch.CheckOut
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.GuestName != nil {
		if *patch.GuestName == "" {
			violations = append(violations, "guest_name is required")
		}
		updates["guest_name"] = *patch.GuestName
	}
	if patch.CheckIn != nil {
		updates["check_in"] = *patch.CheckIn
	}
	if patch.CheckOut != nil {
		updates["check_out"] = *patch.CheckOut
	}
	if (patch.CheckIn != nil || patch.CheckOut != nil) && !checkOut.After(checkIn) {
		violations = append(violations, "check_out must be after check_in")
	}
	if patch.Payout != nil {
		if *patch.Payout < 0 {
			violations = append(violations, "payout must not be negative")
		}
		updates["payout"] = *patch.Payout
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "guest_booking", Violations: violations}
	}
	if len(updates) == 0 {
		return booking, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(booking).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update booking", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter) ([]models.GuestBooking, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.GuestBooking{}).Order("id ASC")
	if filter.PropertyID != 0 {
		q = q.Where("property_id = ?", filter.PropertyID)
	}
	var bookings []models.GuestBooking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, &store.StoreError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

func (r *bookingRepo) Delete(ctx context.Context, id uint) error {
	res := r.store.DB().WithContext(ctx).Delete(&models.GuestBooking{}, id)
	if res.Error != nil {
		return &store.StoreError{Op: "delete booking", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{Entity: "guest_booking", ID: id}
	}
	return nil
}
