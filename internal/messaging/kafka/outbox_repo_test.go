package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alechulkin/modfac/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingEvent() kafka.OutboxEvent {
	payload, _ := json.Marshal(map[string]string{"event_type": "employee.onboarded"})
	return kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     uuid.New().String(),
		AggregateType: "employee",
		AggregateID:   uuid.New().String(),
		EventType:     "employee.onboarded",
		Topic:         "hr.employee.lifecycle.v1",
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success inserts through the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").
			WithArgs(
				event.ID, event.RequestID, event.AggregateType,
				event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := kafka.NewOutboxRepository(db).WithTx(tx)
		assert.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing topic rejected before hitting the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		event.Topic = ""

		repo := kafka.NewOutboxRepository(db)
		assert.Error(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative invalid status rejected", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		event.Status = "enqueued"

		repo := kafka.NewOutboxRepository(db)
		assert.ErrorContains(t, repo.Create(ctx, event), "invalid outbox status")
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("success scans pending rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		rows := sqlmock.NewRows([]string{
			"id", "request_id", "aggregate_type", "aggregate_id",
			"event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
		}).AddRow(
			event.ID, "", event.AggregateType, event.AggregateID,
			event.EventType, event.Topic, event.Payload, event.Status, 0, time.Now(),
		)

		mock.ExpectQuery("SELECT(.|\n)+FROM outbox_events").
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
			WillReturnRows(rows)

		repo := kafka.NewOutboxRepository(db)
		events, err := repo.ListPending(ctx, 50)

		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, event.ID, events[0].ID)
		assert.Equal(t, event.Topic, events[0].Topic)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success empty backlog", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT(.|\n)+FROM outbox_events").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "request_id", "aggregate_type", "aggregate_id",
				"event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
			}))

		repo := kafka.NewOutboxRepository(db)
		events, err := repo.ListPending(ctx, 50)

		assert.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("mark sent", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectExec("UPDATE outbox_events").
			WithArgs(id, kafka.OutboxStatusSent).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.MarkSent(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark failed records the reason", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectExec("UPDATE outbox_events").
			WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.MarkFailed(ctx, id, "broker unreachable"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
