// Package memory provides the in-memory account store used by tests and
// single-process deployments. Persistent implementations live behind the
// same store.AccountStore contract.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"enrolld/internal/registration/models"
	id "enrolld/pkg/domain"
	"enrolld/pkg/platform/sentinel"
)

// translateConfirmError converts domain validation errors from
// ValidateForConfirm to sentinel errors per the store boundary contract.
// Expired tickets map to ErrNotFound on purpose: a caller probing the store
// must not be able to tell an expired ticket from one that never existed.
func translateConfirmError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrTicketExpired):
		return fmt.Errorf("registration ticket not found: %w", sentinel.ErrNotFound)
	case errors.Is(err, models.ErrAccountRemoved):
		return fmt.Errorf("%s: %w", err, sentinel.ErrGone)
	case errors.Is(err, models.ErrNotPending):
		return fmt.Errorf("%s: %w", err, sentinel.ErrAlreadyUsed)
	default:
		return fmt.Errorf("%s: %w", err, sentinel.ErrInvalidState)
	}
}

// InMemoryAccountStore stores accounts in memory. It favors clarity over
// performance: ticket and email lookups scan the map rather than maintain
// side indexes that could drift from the records.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
}

// New constructs an empty in-memory account store.
func New() *InMemoryAccountStore {
	return &InMemoryAccountStore{accounts: make(map[id.AccountID]*models.Account)}
}

func (s *InMemoryAccountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID.IsNil() {
		return fmt.Errorf("account ID is required: %w", sentinel.ErrInvalidState)
	}
	if _, ok := s.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists: %w", account.ID, sentinel.ErrConflict)
	}
	for _, existing := range s.accounts {
		if existing.GroupID == account.GroupID && existing.Email == account.Email {
			return fmt.Errorf("email %s already registered in group %s: %w",
				account.Email, account.GroupID, sentinel.ErrConflict)
		}
	}

	stored := *account
	s.accounts[account.ID] = &stored
	return nil
}

func (s *InMemoryAccountStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

func (s *InMemoryAccountStore) FindByTicket(_ context.Context, ticket string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account := s.findByTicketLocked(ticket)
	if account == nil {
		return nil, fmt.Errorf("registration ticket not found: %w", sentinel.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

// ConsumeTicket is the single read-check-write critical section of a
// confirmation. The store lock is held for exactly this step, never for the
// caller's whole operation.
func (s *InMemoryAccountStore) ConsumeTicket(_ context.Context, ticket string, now time.Time) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.findByTicketLocked(ticket)
	if account == nil {
		return nil, fmt.Errorf("registration ticket not found: %w", sentinel.ErrNotFound)
	}

	if err := account.ValidateForConfirm(now); err != nil {
		return nil, translateConfirmError(err)
	}

	account.Activate(now)
	copied := *account
	return &copied, nil
}

func (s *InMemoryAccountStore) SelectExpired(_ context.Context, now time.Time) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []*models.Account
	for _, account := range s.accounts {
		if account.Expired(now) {
			copied := *account
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

func (s *InMemoryAccountStore) Delete(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	delete(s.accounts, accountID)
	return nil
}

func (s *InMemoryAccountStore) Count(_ context.Context, status models.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, account := range s.accounts {
		if account.Status == status {
			count++
		}
	}
	return count, nil
}

// findByTicketLocked resolves a ticket among pending accounts. Callers hold
// the lock. Empty tickets never match: cleared fields must not resolve.
func (s *InMemoryAccountStore) findByTicketLocked(ticket string) *models.Account {
	if ticket == "" {
		return nil
	}
	for _, account := range s.accounts {
		if account.Ticket == ticket {
			return account
		}
	}
	return nil
}
