// Package audit captures the registration lifecycle as append-only events.
// Emission is best-effort from the caller's point of view: a failed audit
// write is logged by the caller and never fails the business operation.
package audit

import (
	"context"
	"errors"
	"time"

	id "enrolld/pkg/domain"
)

// Action names the lifecycle step an event records.
type Action string

const (
	ActionAccountRegistered     Action = "account_registered"
	ActionRegistrationConfirmed Action = "registration_confirmed"
	ActionRegistrationExpired   Action = "registration_expired"
)

// Event is emitted from domain logic. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	AccountID id.AccountID
	GroupID   id.GroupID
	Email     string
	Reason    string
}

// Store persists events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAccount(ctx context.Context, accountID id.AccountID) ([]Event, error)
}

// Publisher stamps and forwards events to a store so tests can swap sinks.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, accountID id.AccountID) ([]Event, error) {
	return p.store.ListByAccount(ctx, accountID)
}

// ChannelPublisher hands events to a Worker through a buffered channel so
// emission never blocks domain operations. A full inbox drops the event and
// reports the loss; audit here is best-effort by contract.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return errors.New("audit inbox full, event dropped")
	}
}
