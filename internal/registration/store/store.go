// Package store defines the account store contract the registration manager
// depends on. The store is the single source of truth for accounts and their
// tickets; the manager keeps no index of its own.
package store

import (
	"context"
	"time"

	"enrolld/internal/registration/models"
	id "enrolld/pkg/domain"
)

// AccountStore is the collaborator contract.
//
// Error contract: methods return sentinel errors from pkg/platform/sentinel,
// optionally wrapped with context — ErrNotFound for missing entities,
// ErrConflict for duplicate (group, email) pairs, ErrGone for logically
// removed accounts, ErrAlreadyUsed for accounts past pending. Services
// translate these into coded domain errors.
//
// Implementations guard each method with their own lock. The registration
// manager serializes its operations with its own mutex on top, and always in
// that order (manager lock, then store lock), so the pair cannot deadlock.
type AccountStore interface {
	// Create stores a new account. The caller mints the ID. Duplicate
	// (GroupID, normalized Email) pairs fail with ErrConflict.
	Create(ctx context.Context, account *models.Account) error

	// FindByID returns the account with the given ID or ErrNotFound.
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)

	// FindByTicket resolves an outstanding ticket to its pending account.
	// Consumed and swept tickets no longer resolve.
	FindByTicket(ctx context.Context, ticket string) (*models.Account, error)

	// ConsumeTicket atomically validates and activates the account holding
	// the ticket. A ticket past its expiry fails exactly like an unknown one
	// (ErrNotFound); expiry is indistinguishable from "never existed" so the
	// error reveals nothing about ticket validity windows.
	ConsumeTicket(ctx context.Context, ticket string, now time.Time) (*models.Account, error)

	// SelectExpired returns all pending accounts whose expiry has passed.
	SelectExpired(ctx context.Context, now time.Time) ([]*models.Account, error)

	// Delete removes the account record entirely. ErrNotFound when absent.
	Delete(ctx context.Context, accountID id.AccountID) error

	// Count returns how many accounts are currently in the given status.
	Count(ctx context.Context, status models.Status) (int, error)
}
