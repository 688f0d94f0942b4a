package model

import (
	"fmt"
	"time"
)

const BucketJournal = "verification_journal"

const (
	// CodeLength is the default length of a challenge code. 8 characters
	// over a 62-symbol alphabet give enough entropy for a short-lived code.
	CodeLength = 8

	// MaxSubmissionLength bounds the text a member may submit as proof.
	// Longer texts are rejected before reaching the verify endpoint.
	MaxSubmissionLength = 500
)

var (
	VerificationExpiredErr = fmt.Errorf("verification expired")
	NotPendingErr          = fmt.Errorf("not pending verification")
	NotAdminErr            = fmt.Errorf("not an admin")
)

// VerificationKey identifies one pending verification. Group and user are
// kept as separate fields so identifiers containing separator characters
// cannot collide.
type VerificationKey struct {
	GroupID string
	UserID  string
}

// PendingVerification is one in-flight verification attempt. Records are
// immutable; expiry is detected by comparing CreatedAt against the clock.
type PendingVerification struct {
	GroupID   string
	UserID    string
	Code      string
	CreatedAt time.Time
}

func (p PendingVerification) Key() VerificationKey {
	return VerificationKey{GroupID: p.GroupID, UserID: p.UserID}
}

func (p PendingVerification) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

type OutcomeKind string

const (
	OutcomeVerified   OutcomeKind = "verified"
	OutcomeOverridden OutcomeKind = "overridden"
	OutcomeExpired    OutcomeKind = "expired"
)

// VerificationOutcome is the journal record written when a pending
// verification reaches a terminal state.
type VerificationOutcome struct {
	ID         string
	GroupID    string
	UserID     string
	Code       string
	Kind       OutcomeKind
	CreatedAt  time.Time
	ResolvedAt time.Time
}
