package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
	"github.com/nyumba-labs/propops/repos"
	"github.com/nyumba-labs/propops/store"
)

func scheduleMessage(t *testing.T, repo repos.MessageRepo, sendAt time.Time) *models.ScheduledMessage {
	t.Helper()
	message, err := repo.Create(context.Background(), repos.MessageInput{
		Recipient: "+254712345678",
		Channel:   "whatsapp",
		Template:  "Rent due reminder",
		SendAt:    sendAt,
	})
	require.NoError(t, err)
	return message
}

func TestMessageCreateStartsScheduled(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewMessageRepo(st, logger.NewNop())

	message := scheduleMessage(t, repo, time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, models.MessageScheduled, message.Status)
}

func TestMessageCreateValidation(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewMessageRepo(st, logger.NewNop())

	_, err := repo.Create(context.Background(), repos.MessageInput{Channel: "sms"})
	require.Error(t, err)

	var ve *store.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Violations, "recipient is required")
	assert.Contains(t, ve.Violations, "template is required")
	assert.Contains(t, ve.Violations, "send_at is required")
}

func TestMessageTerminalStatusRejectsUpdates(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewMessageRepo(st, logger.NewNop())
	ctx := context.Background()

	message := scheduleMessage(t, repo, time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC))

	sent, err := repo.MarkSent(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageSent, sent.Status)

	// Any further update is an invalid transition.
	scheduled := models.MessageScheduled
	_, err = repo.Update(ctx, message.ID, repos.MessagePatch{Status: &scheduled})
	require.Error(t, err)

	var te *store.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "sent", te.From)
	assert.Equal(t, "scheduled", te.To)

	newSend := time.Date(2024, 10, 2, 8, 0, 0, 0, time.UTC)
	_, err = repo.Update(ctx, message.ID, repos.MessagePatch{SendAt: &newSend})
	assert.True(t, errors.As(err, &te))
}

func TestMessageMarkFailedIsTerminal(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewMessageRepo(st, logger.NewNop())
	ctx := context.Background()

	message := scheduleMessage(t, repo, time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC))
	failed, err := repo.MarkFailed(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageFailed, failed.Status)

	_, err = repo.MarkSent(ctx, message.ID)
	var te *store.InvalidTransitionError
	assert.True(t, errors.As(err, &te))
}

func TestMessageListDueWithin(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewMessageRepo(st, logger.NewNop())
	ctx := context.Background()

	early := scheduleMessage(t, repo, time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC))
	scheduleMessage(t, repo, time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC))

	horizon := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
	scheduled := models.MessageScheduled
	due, err := repo.List(ctx, repos.MessageFilter{
		Status: &scheduled, SendBy: &horizon, OrderBySend: true,
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, early.ID, due[0].ID)
}
