// Package models defines the account aggregate owned by the registration
// lifecycle: created pending with a confirmation ticket and an expiry,
// activated when the ticket is consumed, deleted when the ticket expires.
package models

import (
	"errors"
	"time"

	id "enrolld/pkg/domain"
)

// Status is the account lifecycle state.
type Status string

const (
	// StatusPending means the account awaits ticket confirmation and carries
	// a non-zero RegistrationExpiry.
	StatusPending Status = "pending"
	// StatusActive is terminal from the registration manager's perspective.
	StatusActive Status = "active"
	// StatusRemoved marks logical deletion. The sweep deletes expired pending
	// accounts outright, so this state is only reachable through other
	// administrative paths.
	StatusRemoved Status = "removed"
)

// Validation errors returned by ValidateForConfirm. The store translates
// these into sentinel errors at its boundary.
var (
	ErrAccountRemoved = errors.New("account removed")
	ErrNotPending     = errors.New("not awaiting confirmation")
	ErrTicketExpired  = errors.New("registration ticket expired")
	ErrMissingExpiry  = errors.New("pending account has no expiry")
)

// Account is the stored account record. The registration manager is the only
// writer of Status, Ticket, RegistrationExpiry and RegisteredAt.
type Account struct {
	ID             id.AccountID
	GroupID        id.GroupID
	Email          string
	FirstName      string
	LastName       string
	CredentialHash string
	Status         Status
	// Ticket is the outstanding confirmation ticket. Non-empty only while
	// Status is StatusPending.
	Ticket string
	// RegistrationExpiry bounds how long the ticket stays confirmable.
	// Zero once the account is active.
	RegistrationExpiry time.Time
	// RegisteredAt is stamped when the account becomes active.
	RegisteredAt time.Time
	CreatedAt    time.Time
	// Removed flags logical deletion independent of Status transitions.
	Removed bool
}

// IsOpen reports whether the account is still live (not logically removed).
func (a *Account) IsOpen() bool {
	return !a.Removed && a.Status != StatusRemoved
}

// Expired reports whether the pending registration window has passed.
// Non-pending accounts never report expired.
func (a *Account) Expired(now time.Time) bool {
	if a.Status != StatusPending {
		return false
	}
	return !a.RegistrationExpiry.IsZero() && a.RegistrationExpiry.Before(now)
}

// ValidateForConfirm checks that the account can transition to active at the
// given instant. The order matters: removal is checked before state so a
// removed account never reports "not pending".
func (a *Account) ValidateForConfirm(now time.Time) error {
	if !a.IsOpen() {
		return ErrAccountRemoved
	}
	if a.Status != StatusPending {
		return ErrNotPending
	}
	if a.RegistrationExpiry.IsZero() {
		return ErrMissingExpiry
	}
	if a.RegistrationExpiry.Before(now) {
		return ErrTicketExpired
	}
	return nil
}

// Activate transitions the account to active, clears the ticket and expiry,
// and stamps the registration time. Callers must run ValidateForConfirm
// first; Activate does not re-check.
func (a *Account) Activate(now time.Time) {
	a.Status = StatusActive
	a.Ticket = ""
	a.RegistrationExpiry = time.Time{}
	a.RegisteredAt = now
}

// RegisterRequest carries the caller-supplied inputs for a new registration.
// CredentialHash is opaque here; hashing and policy live with the caller.
type RegisterRequest struct {
	GroupID        id.GroupID `validate:"required"`
	Email          string     `validate:"required,email"`
	CredentialHash string     `validate:"required"`
}

// RegisterResult is returned to the caller, who delivers the ticket to the
// user out-of-band.
type RegisterResult struct {
	AccountID id.AccountID
	Ticket    string
	ExpiresAt time.Time
}
