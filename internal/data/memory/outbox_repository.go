package memory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/outbox"
)

type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return r
}

func (r *outboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.nextMessageID
	s.nextMessageID++

	cp := *message
	s.messages = append(s.messages, &cp)
	return nil
}

func (r *outboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*outbox.Message
	for _, msg := range s.messages {
		if msg.Status != outbox.StatusPending {
			continue
		}
		cp := *msg
		pending = append(pending, &cp)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			msg.Status = status
			now := s.now()
			msg.LastAttemptAt = &now
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *outboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			msg.Attempts++
			now := s.now()
			msg.LastAttemptAt = &now
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}
