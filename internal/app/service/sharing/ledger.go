// Package sharing implements family groups and the cost-sharing ledger.
// Group state is a single document (members, invites, shared subscriptions);
// the calculation logic in this file is pure over that document, and the
// service wraps it in whole-document read-modify-write persistence.
package sharing

import (
	"time"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/types"
)

// ComputeSplits produces one CostSplit per member for a monthly-normalized
// cost. Equal: cost divided by member count, rounded to two decimals
// independently per member — the sum may drift from the total by a few
// cents, which is accepted and deliberately not corrected by remainder
// redistribution. Percentage: the member's value is a percentage of the
// monthly cost. Fixed: the member's value is the amount itself.
func ComputeSplits(members []types.GroupMember, monthlyCost float64, splitType types.SplitType, values map[string]float64) ([]types.CostSplit, error) {
	if len(members) == 0 {
		return nil, apperr.Invariant("group has no members")
	}

	splits := make([]types.CostSplit, 0, len(members))
	for _, m := range members {
		var value, amount float64
		switch splitType {
		case types.SplitTypeEqual:
			value = 1
			amount = monthlyCost / float64(len(members))
		case types.SplitTypePercentage:
			value = values[m.UserID]
			amount = monthlyCost * value / 100
		case types.SplitTypeFixed:
			value = values[m.UserID]
			amount = value
		default:
			return nil, apperr.Validation("unknown split type: %q", splitType)
		}
		splits = append(splits, types.CostSplit{
			MemberID:         m.UserID,
			MemberName:       m.DisplayName,
			Type:             splitType,
			Value:            value,
			CalculatedAmount: billing.Round2(amount),
		})
	}
	return splits, nil
}

// NewSharedSubscription snapshots a subscription's billing fields into a
// group entry with per-member splits computed from its monthly-normalized
// cost.
func NewSharedSubscription(sub models.Subscription, members []types.GroupMember, splitType types.SplitType, values map[string]float64, paidBy, addedBy string, now time.Time) (types.SharedSubscription, error) {
	monthly, err := billing.MonthlyCost(sub.Amount, sub.Cycle)
	if err != nil {
		return types.SharedSubscription{}, err
	}
	splits, err := ComputeSplits(members, monthly, splitType, values)
	if err != nil {
		return types.SharedSubscription{}, err
	}
	return types.SharedSubscription{
		SubscriptionID:   sub.ID,
		SubscriptionName: sub.Name,
		TotalAmount:      monthly,
		Currency:         sub.Currency,
		Cycle:            sub.Cycle,
		SplitType:        splitType,
		Splits:           splits,
		PaidBy:           paidBy,
		AddedBy:          addedBy,
		AddedAt:          now,
	}, nil
}

// Summary aggregates a group's shared costs for one member, normalized to
// the reference currency.
type Summary struct {
	GroupID            string  `json:"group_id"`
	GroupName          string  `json:"group_name"`
	TotalMonthly       float64 `json:"total_monthly"`
	MyShare            float64 `json:"my_share"`
	Savings            float64 `json:"savings"`
	MembersCount       int     `json:"members_count"`
	SubscriptionsCount int     `json:"subscriptions_count"`
}

// Summarize computes the member's group summary. Savings is what the member
// avoids paying: the group total minus their own share.
func Summarize(group *models.FamilyGroup, memberID string) Summary {
	members := group.Members.Data()
	shared := group.SharedSubscriptions.Data()

	var totalMonthly, myShare float64
	for _, sub := range shared {
		ref, err := billing.ToReference(sub.TotalAmount, sub.Currency)
		if err != nil {
			continue
		}
		totalMonthly += ref

		for _, split := range sub.Splits {
			if split.MemberID != memberID {
				continue
			}
			share, err := billing.ToReference(split.CalculatedAmount, sub.Currency)
			if err != nil {
				continue
			}
			myShare += share
		}
	}

	return Summary{
		GroupID:            group.ID,
		GroupName:          group.Name,
		TotalMonthly:       billing.Round2(totalMonthly),
		MyShare:            billing.Round2(myShare),
		Savings:            billing.Round2(totalMonthly - myShare),
		MembersCount:       len(members),
		SubscriptionsCount: len(shared),
	}
}

func findMember(members []types.GroupMember, userID string) *types.GroupMember {
	for i := range members {
		if members[i].UserID == userID {
			return &members[i]
		}
	}
	return nil
}

// removeMember validates and applies a member removal on the document
// content: requester must hold a managing role, the owner can never be
// removed, and the removed member's splits are stripped from every shared
// subscription. Remaining members' amounts are left as last computed; no
// automatic re-split.
func removeMember(group *models.FamilyGroup, memberID, requestingID string) error {
	members := group.Members.Data()

	requester := findMember(members, requestingID)
	if requester == nil || !requester.Role.CanManageMembers() {
		return apperr.Permission("only the owner or an admin can remove members")
	}
	if memberID == group.OwnerID {
		return apperr.Invariant("the group owner cannot be removed")
	}
	if findMember(members, memberID) == nil {
		return apperr.NotFound("member not found: %s", memberID)
	}

	kept := make([]types.GroupMember, 0, len(members)-1)
	for _, m := range members {
		if m.UserID != memberID {
			kept = append(kept, m)
		}
	}

	shared := group.SharedSubscriptions.Data()
	for i := range shared {
		splits := make([]types.CostSplit, 0, len(shared[i].Splits))
		for _, split := range shared[i].Splits {
			if split.MemberID != memberID {
				splits = append(splits, split)
			}
		}
		shared[i].Splits = splits
	}

	setMembers(group, kept)
	setShared(group, shared)
	return nil
}

// newInvite validates and appends a pending invite to the document content.
func newInvite(group *models.FamilyGroup, inviteID, email, invitedBy string, now time.Time) (*types.GroupInvite, error) {
	members := group.Members.Data()
	invites := group.Invites.Data()

	for _, m := range members {
		if m.Email == email {
			return nil, apperr.Invariant("already a member: %s", email)
		}
	}
	for _, inv := range invites {
		if inv.Email == email && inv.Status == types.InviteStatusPending {
			return nil, apperr.Invariant("a pending invite already exists for %s", email)
		}
	}
	if len(members) >= types.MaxGroupMembers {
		return nil, apperr.Invariant("group is at capacity (%d members)", types.MaxGroupMembers)
	}

	invite := types.GroupInvite{
		ID:        inviteID,
		Email:     email,
		InvitedBy: invitedBy,
		Status:    types.InviteStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(types.InviteTTL),
	}
	setInvites(group, append(invites, invite))
	return &invite, nil
}

// acceptInvite validates and applies an invite acceptance: the invite must
// be pending and unexpired, addressed to the accepting user's email, and
// the group must still have capacity.
func acceptInvite(group *models.FamilyGroup, inviteID string, member types.GroupMember, now time.Time) error {
	members := group.Members.Data()
	invites := group.Invites.Data()

	var invite *types.GroupInvite
	for i := range invites {
		if invites[i].ID == inviteID {
			invite = &invites[i]
			break
		}
	}
	if invite == nil {
		return apperr.NotFound("invite not found: %s", inviteID)
	}
	if invite.Status != types.InviteStatusPending {
		return apperr.Invariant("invite is not pending")
	}
	if now.After(invite.ExpiresAt) {
		invite.Status = types.InviteStatusExpired
		setInvites(group, invites)
		return apperr.Invariant("invite has expired")
	}
	if invite.Email != member.Email {
		return apperr.Invariant("invite was issued for a different email")
	}
	if findMember(members, member.UserID) != nil {
		return apperr.Invariant("already a member: %s", member.Email)
	}
	if len(members) >= types.MaxGroupMembers {
		return apperr.Invariant("group is at capacity (%d members)", types.MaxGroupMembers)
	}

	invite.Status = types.InviteStatusAccepted
	member.Role = types.GroupRoleMember
	member.JoinedAt = now

	setMembers(group, append(members, member))
	setInvites(group, invites)
	return nil
}
