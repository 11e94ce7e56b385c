// Package domain holds the typed identifiers shared across the module.
// IDs are distinct types over uuid.UUID so an AccountID can never be passed
// where a GroupID is expected; the mistake fails at compile time.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "enrolld/pkg/domain-errors"
)

// AccountID identifies a single account record.
type AccountID uuid.UUID

// GroupID identifies the group an account registers under. Email uniqueness
// is scoped per group.
type GroupID uuid.UUID

// NewAccountID mints a fresh random account identifier.
func NewAccountID() AccountID {
	return AccountID(uuid.New())
}

// ParseAccountID validates and returns an AccountID.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parse(s, "account ID")
	return AccountID(u), err
}

// ParseGroupID validates and returns a GroupID.
func ParseGroupID(s string) (GroupID, error) {
	u, err := parse(s, "group ID")
	return GroupID(u), err
}

func parse(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is required", kind))
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return u, nil
}

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id GroupID) String() string { return uuid.UUID(id).String() }
func (id GroupID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
