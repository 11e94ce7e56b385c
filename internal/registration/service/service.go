// Package service implements the registration ticket manager: it issues
// time-limited confirmation tickets for new accounts, consumes them on
// confirmation, and reclaims unconfirmed accounts once their ticket expires.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"enrolld/internal/audit"
	"enrolld/internal/platform/config"
	"enrolld/internal/platform/metrics"
	"enrolld/internal/registration/models"
	"enrolld/internal/registration/store"
	"enrolld/internal/registration/ticket"
	id "enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/email"
	"enrolld/pkg/platform/sentinel"
	"enrolld/pkg/requestcontext"
	"enrolld/pkg/validate"
)

const secondsPerDay = 24 * 60 * 60

// AuditPublisher is the sink for lifecycle events. Emission is best-effort:
// failures are logged, never surfaced to the caller.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Manager owns the account status transitions pending→active (confirm) and
// pending→deleted (expiry sweep).
//
// One mutex serializes Register, Confirm and Sweep end-to-end, so the effects
// of one call are fully visible before the next begins: at most one ticket
// resolves per account at any instant, and a sweep racing a confirm is
// decided by whoever takes the mutex first. The account store's own lock is
// only ever acquired inside the manager's, for the single-account
// read-check-write step, so the lock order is fixed and cannot deadlock.
type Manager struct {
	mu    sync.Mutex
	store store.AccountStore

	expirationDays int
	// speedupFactor divides the effective TTL. Always 1 in production; tests
	// raise it to shrink days into seconds. Guarded by mu.
	speedupFactor int

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

// Option configures the Manager.
type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(m *Manager) { m.auditPublisher = publisher }
}

// New constructs a Manager over the given account store.
func New(accounts store.AccountStore, cfg config.Registration, opts ...Option) (*Manager, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if cfg.ExpirationDays <= 0 {
		return nil, errors.New("expiration days must be positive")
	}

	m := &Manager{
		store:          accounts,
		expirationDays: cfg.ExpirationDays,
		speedupFactor:  cfg.SpeedupFactor,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if m.speedupFactor < 1 {
		m.speedupFactor = 1
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SetSpeedupFactor changes the TTL divisor at runtime. It exists so tests
// can expire registrations in seconds; production keeps the default of 1.
// Values below 1 reset to 1.
func (m *Manager) SetSpeedupFactor(factor int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if factor < 1 {
		factor = 1
	}
	m.speedupFactor = factor
}

// Register creates a pending account and returns its confirmation ticket.
// An opportunistic sweep runs first, so re-registering an email whose prior
// pending registration has expired succeeds. Duplicate live emails fail with
// the store's conflict error.
func (m *Manager) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "request is required")
	}
	req.Email = email.Normalize(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := requestcontext.Now(ctx)
	m.removeExpired(ctx, now)

	tk, err := ticket.New()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate registration ticket")
	}

	firstName, lastName := email.DeriveNameFromEmail(req.Email)
	account := &models.Account{
		ID:                 id.NewAccountID(),
		GroupID:            req.GroupID,
		Email:              req.Email,
		FirstName:          firstName,
		LastName:           lastName,
		CredentialHash:     req.CredentialHash,
		Status:             models.StatusPending,
		Ticket:             tk,
		RegistrationExpiry: now.Add(m.effectiveTTL()),
		CreatedAt:          now,
	}

	if err := m.store.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "account creation failed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "account creation failed")
	}

	if m.metrics != nil {
		m.metrics.Registrations.Inc()
	}
	m.logAudit(ctx, audit.Event{
		Timestamp: now,
		Action:    audit.ActionAccountRegistered,
		AccountID: account.ID,
		GroupID:   account.GroupID,
		Email:     account.Email,
	})
	m.logger.InfoContext(ctx, "registered pending account",
		"account_id", account.ID.String(),
		"group_id", account.GroupID.String(),
		"expires_at", account.RegistrationExpiry,
	)

	return &models.RegisterResult{
		AccountID: account.ID,
		Ticket:    tk,
		ExpiresAt: account.RegistrationExpiry,
	}, nil
}

// Confirm consumes a ticket and activates its account. A ticket that was
// never issued, already consumed, or expired fails with the same
// CodeNotFound error so callers learn nothing about validity windows.
// Confirming twice fails the second time; it never silently re-activates.
func (m *Manager) Confirm(ctx context.Context, tk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := requestcontext.Now(ctx)
	m.removeExpired(ctx, now)

	account, err := m.store.ConsumeTicket(ctx, tk, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeNotFound, "invalid or expired registration ticket")
		case errors.Is(err, sentinel.ErrGone):
			// Defensive: the sweep deletes expired accounts outright, so a
			// logically removed account holding a live ticket points at a
			// concurrent administrative path.
			return dErrors.Wrap(err, dErrors.CodeGone, "account has been removed")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return dErrors.Wrap(err, dErrors.CodeConflict, "account is not awaiting confirmation")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm registration")
		}
	}

	if m.metrics != nil {
		m.metrics.Confirmations.Inc()
	}
	m.logAudit(ctx, audit.Event{
		Timestamp: now,
		Action:    audit.ActionRegistrationConfirmed,
		AccountID: account.ID,
		GroupID:   account.GroupID,
		Email:     account.Email,
	})
	m.logger.InfoContext(ctx, "confirmed registration",
		"account_id", account.ID.String(),
		"registered_at", account.RegisteredAt,
	)
	return nil
}

// Sweep removes all expired pending accounts and reports how many were
// deleted. It is safe to call at any time and a no-op when nothing has
// expired; Register and Confirm already run it implicitly.
func (m *Manager) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeExpired(ctx, requestcontext.Now(ctx))
}

// removeExpired is the sweep body. Callers hold m.mu. Deletion failures are
// logged and skipped: expiry cleanup is best-effort housekeeping riding along
// on unrelated calls, never part of the caller's transaction.
func (m *Manager) removeExpired(ctx context.Context, now time.Time) int {
	expired, err := m.store.SelectExpired(ctx, now)
	if err != nil {
		m.logger.WarnContext(ctx, "expiry sweep query failed", "error", err)
		return 0
	}

	removed := 0
	for _, account := range expired {
		if err := m.store.Delete(ctx, account.ID); err != nil {
			// Already gone means a concurrent path got there first; that is
			// the outcome the sweep wanted.
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			if m.metrics != nil {
				m.metrics.SweepDeletionFailure.Inc()
			}
			m.logger.WarnContext(ctx, "failed to delete expired account",
				"account_id", account.ID.String(),
				"error", err,
			)
			continue
		}

		removed++
		if m.metrics != nil {
			m.metrics.ExpiredRemoved.Inc()
		}
		m.logAudit(ctx, audit.Event{
			Timestamp: now,
			Action:    audit.ActionRegistrationExpired,
			AccountID: account.ID,
			GroupID:   account.GroupID,
			Email:     account.Email,
			Reason:    "registration ticket expired",
		})
		m.logger.InfoContext(ctx, "removed expired pending account",
			"account_id", account.ID.String(),
			"expired_at", account.RegistrationExpiry,
		)
	}
	return removed
}

// effectiveTTL returns the pending-registration lifetime. Callers hold m.mu.
func (m *Manager) effectiveTTL() time.Duration {
	seconds := m.expirationDays * secondsPerDay / m.speedupFactor
	return time.Duration(seconds) * time.Second
}

func (m *Manager) logAudit(ctx context.Context, event audit.Event) {
	if m.auditPublisher == nil {
		return
	}
	if err := m.auditPublisher.Emit(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "audit emission failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}
