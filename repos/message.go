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

// MessageInput carries the fields for a new scheduled message. Rows are
// always created in the scheduled state.
type MessageInput struct {
	Recipient string
	Channel   string
	Template  string
	SendAt    time.Time
}

// MessagePatch updates a scheduled message. Once a dispatch outcome
// (sent or failed) is recorded the row is immutable.
type MessagePatch struct {
	Status *models.MessageStatus
	SendAt *time.Time
}

// MessageFilter narrows and orders List results.
type MessageFilter struct {
	Status      *models.MessageStatus
	SendBy      *time.Time
	OrderBySend bool
	Limit       int
}

type MessageRepo interface {
	Create(ctx context.Context, input MessageInput) (*models.ScheduledMessage, error)
	Get(ctx context.Context, id uint) (*models.ScheduledMessage, error)
	Update(ctx context.Context, id uint, patch MessagePatch) (*models.ScheduledMessage, error)
	// MarkSent and MarkFailed record the dispatch outcome reported by the
	// external messaging collaborator.
	MarkSent(ctx context.Context, id uint) (*models.ScheduledMessage, error)
	MarkFailed(ctx context.Context, id uint) (*models.ScheduledMessage, error)
	List(ctx context.Context, filter MessageFilter) ([]models.ScheduledMessage, error)
	Delete(ctx context.Context, id uint) error
}

type messageRepo struct {
	store *store.Store
	log   *logger.Logger
}

func NewMessageRepo(st *store.Store, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{store: st, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(ctx context.Context, input MessageInput) (*models.ScheduledMessage, error) {
	var violations []string
	if input.Recipient == "" {
		violations = append(violations, "recipient is required")
	}
	if input.Channel == "" {
		violations = append(violations, "channel is required")
	}
	if input.Template == "" {
		violations = append(violations, "template is required")
	}
	if input.SendAt.IsZero() {
		violations = append(violations, "send_at is required")
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "scheduled_message", Violations: violations}
	}

	message := models.ScheduledMessage{
		Recipient: input.Recipient,
		Channel:   input.Channel,
		Template:  input.Template,
		SendAt:    input.SendAt,
		Status:    models.MessageScheduled,
	}
	if err := r.store.DB().WithContext(ctx).Create(&message).Error; err != nil {
		return nil, &store.StoreError{Op: "create message", Err: err}
	}
	r.log.Info("message scheduled", "id", message.ID, "channel", message.Channel)
	return &message, nil
}

func (r *messageRepo) Get(ctx context.Context, id uint) (*models.ScheduledMessage, error) {
	var message models.ScheduledMessage
	if err := r.store.DB().WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "scheduled_message", ID: id}
		}
		return nil, &store.StoreError{Op: "get message", Err: err}
	}
	return &message, nil
}

func (r *messageRepo) Update(ctx context.Context, id uint, patch MessagePatch) (*models.ScheduledMessage, error) {
	message, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.Status.Terminal() {
		to := string(message.Status)
		if patch.Status != nil {
			to = string(*patch.Status)
		}
		return nil, &store.InvalidTransitionError{
			Entity: "scheduled_message",
			From:   string(message.Status),
			To:     to,
		}
	}

	var violations []string
	updates := map[string]interface{}{}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			violations = append(violations, "status must be one of scheduled, sent, failed")
		}
		updates["status"] = *patch.Status
	}
	if patch.SendAt != nil {
		if patch.SendAt.IsZero() {
			violations = append(violations, "send_at is required")
		}
		updates["send_at"] = *patch.SendAt
	}
	if len(violations) > 0 {
		return nil, &store.ValidationError{Entity: "scheduled_message", Violations: violations}
	}
	if len(updates) == 0 {
		return message, nil
	}

	if err := r.store.DB().WithContext(ctx).Model(message).Updates(updates).Error; err != nil {
		return nil, &store.StoreError{Op: "update message", Err: err}
	}
	return r.Get(ctx, id)
}

func (r *messageRepo) MarkSent(ctx context.Context, id uint) (*models.ScheduledMessage, error) {
	status := models.MessageSent
	return r.Update(ctx, id, MessagePatch{Status: &status})
}

func (r *messageRepo) MarkFailed(ctx context.Context, id uint) (*models.ScheduledMessage, error) {
	status := models.MessageFailed
	return r.Update(ctx, id, MessagePatch{Status: &status})
}

func (r *messageRepo) List(ctx context.Context, filter MessageFilter) ([]models.ScheduledMessage, error) {
	q := r.store.DB().WithContext(ctx).Model(&models.ScheduledMessage{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.SendBy != nil {
		q = q.Where("send_at <= ?", *filter.SendBy)
	}
	if filter.OrderBySend {
		q = q.Order("send_at ASC, id ASC")
	} else {
		q = q.Order("id ASC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var messages []models.ScheduledMessage
	if err := q.Find(&messages).Error; err != nil {
		return nil, &store.StoreError{Op: "list messages", Err: err}
	}
	return messages, nil
}

func (r *messageRepo) Delete(ctx context.Context, id uint) error {
	res := r.store.DB().WithContext(ctx).Delete(&models.ScheduledMessage{}, id)
	if res.Error != nil {
		return &store.StoreError{Op: "delete message", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{Entity: "scheduled_message", ID: id}
	}
	return nil
}
