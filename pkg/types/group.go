package types

import (
	"fmt"
	"time"
)

// MaxGroupMembers caps family group membership, pending invites included
// when accepting.
const MaxGroupMembers = 5

// InviteTTL is how long a pending invite stays acceptable.
const InviteTTL = 7 * 24 * time.Hour

// GroupRole is a member's role inside a family group. Exactly one member
// holds the owner role and can never be removed.
type GroupRole string

const (
	GroupRoleOwner  GroupRole = "owner"
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// CanManageMembers reports whether the role may remove other members.
func (r GroupRole) CanManageMembers() bool {
	return r == GroupRoleOwner || r == GroupRoleAdmin
}

// InviteStatus is the lifecycle state of a group invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

// SplitType selects the cost-splitting policy of a shared subscription.
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
	SplitTypeFixed      SplitType = "fixed"
)

func (s SplitType) Valid() bool {
	return s == SplitTypeEqual || s == SplitTypePercentage || s == SplitTypeFixed
}

func ParseSplitType(v string) (SplitType, error) {
	s := SplitType(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown split type: %q", v)
	}
	return s, nil
}

// GroupMember is a family group member entry, stored inside the group
// document.
type GroupMember struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        GroupRole `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// GroupInvite is a pending (or settled) invitation stored inside the group
// document.
type GroupInvite struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	InvitedBy string       `json:"invited_by"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// CostSplit is one member's computed share of a shared subscription's
// normalized monthly cost.
type CostSplit struct {
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Type       SplitType `json:"type"`
	// Value is the raw split input: ignored for equal, a percentage of the
	// monthly cost for percentage, the amount itself for fixed.
	Value float64 `json:"value"`
	// CalculatedAmount is the member's share rounded to two decimals,
	// independently per member. The per-group sum may drift from the total
	// by a few cents; that slippage is accepted and never redistributed.
	CalculatedAmount float64 `json:"calculated_amount"`
}

// SharedSubscription links a member's subscription into a group with a
// snapshot of its billing fields taken at share time.
type SharedSubscription struct {
	SubscriptionID   string      `json:"subscription_id"`
	SubscriptionName string      `json:"subscription_name"`
	// TotalAmount is the monthly-normalized cost in the subscription's own
	// currency, snapshotted when shared.
	TotalAmount float64     `json:"total_amount"`
	Currency    Currency    `json:"currency"`
	Cycle       Cycle       `json:"cycle"`
	SplitType   SplitType   `json:"split_type"`
	Splits      []CostSplit `json:"splits"`
	PaidBy      string      `json:"paid_by"`
	AddedBy     string      `json:"added_by"`
	AddedAt     time.Time   `json:"added_at"`
}
