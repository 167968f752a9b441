package domain

import (
	"context"
	"time"
)

// LinkingCodeLength is the fixed length of invite codes.
const LinkingCodeLength = 6

// LinkingCodeAlphabet is the character set invite codes are drawn from.
const LinkingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Couple pairs two users. A fresh row is Pending: user1 set, user2 null,
// linking code set. The one successful claim sets user2 and nulls the code
// in the same write; after that the row is Linked and terminal.
type Couple struct {
	ID          string
	User1ID     string
	User2ID     *string
	LinkingCode *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLinked reports whether the couple has been claimed by a second user.
func (c *Couple) IsLinked() bool {
	return c.User2ID != nil && *c.User2ID != ""
}

// PartnerOf returns the other member's id, or "" when userID is not a
// member or the couple is still pending.
func (c *Couple) PartnerOf(userID string) string {
	if !c.IsLinked() {
		return ""
	}
	switch userID {
	case c.User1ID:
		return *c.User2ID
	case *c.User2ID:
		return c.User1ID
	default:
		return ""
	}
}

// HydratedCouple is a linked couple annotated with the partner's profile,
// as shown in the viewer's couples list.
type HydratedCouple struct {
	ID      string
	Partner Profile
}

// ClaimResult reports the outcome of the atomic claim update.
type ClaimResult struct {
	Couple *Couple
	// Outcome is one of ClaimOK, ClaimNotFound, ClaimAlreadyClaimed,
	// ClaimSelfLink; the repository never collapses them.
	Outcome ClaimOutcome
}

// ClaimOutcome enumerates the distinguishable claim failure modes.
type ClaimOutcome int

const (
	ClaimOK ClaimOutcome = iota
	ClaimNotFound
	ClaimAlreadyClaimed
	ClaimSelfLink
)

// CoupleRepository defines the interface for couple persistence. The
// store arbitrates all claim races; none of these operations may be
// implemented as unguarded read-then-write round trips.
type CoupleRepository interface {
	// CreatePendingCouple inserts a Pending row for user1 with the given
	// code, relying on the store's uniqueness constraint over non-null
	// linking codes. ErrLinkingCodeTaken is returned on collision.
	CreatePendingCouple(ctx context.Context, couple *Couple) error

	// DeletePendingCouplesByUser removes the caller's unclaimed invites.
	// Returns the number of rows removed.
	DeletePendingCouplesByUser(ctx context.Context, userID string) (int64, error)

	// ClaimCode performs the single conditional update that links
	// claimerID into the pending couple holding code, nulling the code
	// and canonicalizing member order in the same statement.
	ClaimCode(ctx context.Context, claimerID, code string) (*ClaimResult, error)

	// GetLinkedCouplesByUser returns every Linked couple the user belongs
	// to. Pending rows are never returned, including the user's own.
	GetLinkedCouplesByUser(ctx context.Context, userID string) ([]*Couple, error)

	// GetCoupleByID returns the couple or nil when absent.
	GetCoupleByID(ctx context.Context, coupleID string) (*Couple, error)
}

// ErrLinkingCodeTaken signals a linking-code uniqueness violation on
// insert. Callers retry with a fresh code.
type linkingCodeTakenError struct{}

func (linkingCodeTakenError) Error() string { return "linking code already taken" }

var ErrLinkingCodeTaken error = linkingCodeTakenError{}
