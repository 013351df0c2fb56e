package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/logctx"
	"github.com/subtracker/subtracker/pkg/tool"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// CreateGroup creates a group with the creator as its sole owner-role
// member.
func (s *Service) CreateGroup(ctx context.Context, owner types.GroupMember, name string) (*models.FamilyGroup, error) {
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}
	owner.Role = types.GroupRoleOwner
	owner.JoinedAt = time.Now()

	group := &models.FamilyGroup{
		ID:                  tool.GenerateUUIDV7(),
		Name:                name,
		OwnerID:             owner.UserID,
		Members:             datatypes.NewJSONType([]types.GroupMember{owner}),
		Invites:             datatypes.NewJSONType([]types.GroupInvite{}),
		SharedSubscriptions: datatypes.NewJSONType([]types.SharedSubscription{}),
	}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, apperr.Transient(err, "failed to create group")
	}
	logctx.FromCtx(ctx, s.log).Infow("group created", "group_id", group.ID, "owner_id", owner.UserID)
	return group, nil
}

// GetGroup loads a group the user belongs to.
func (s *Service) GetGroup(ctx context.Context, groupID, userID string) (*models.FamilyGroup, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if findMember(group.Members.Data(), userID) == nil {
		return nil, apperr.Permission("not a member of group %s", groupID)
	}
	return group, nil
}

// ListUserGroups returns every group the user is a member of, via jsonb
// containment on the members document.
func (s *Service) ListUserGroups(ctx context.Context, userID string) ([]models.FamilyGroup, error) {
	memberFilter := fmt.Sprintf(`[{"user_id": %q}]`, userID)
	var groups []models.FamilyGroup
	err := s.db.WithContext(ctx).
		Where("owner_id = ? OR members @> ?", userID, memberFilter).
		Order("created_at").
		Find(&groups).Error
	if err != nil {
		return nil, apperr.Transient(err, "failed to list groups")
	}
	return groups, nil
}

// DeleteGroup removes the group document entirely, cascading to all shared
// subscription entries it contains. Owner only.
func (s *Service) DeleteGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != userID {
		return apperr.Permission("only the owner can delete the group")
	}
	if err := s.db.WithContext(ctx).Delete(group).Error; err != nil {
		return apperr.Transient(err, "failed to delete group")
	}
	logctx.FromCtx(ctx, s.log).Infow("group deleted", "group_id", groupID)
	return nil
}

// SendInvite records a pending invite with a 7-day expiry. The actual email
// delivery is the caller's concern; this only maintains the ledger state.
func (s *Service) SendInvite(ctx context.Context, groupID, email, invitedBy string) (*types.GroupInvite, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if m := findMember(group.Members.Data(), invitedBy); m == nil {
		return nil, apperr.Permission("not a member of group %s", groupID)
	}

	invite, err := newInvite(group, tool.GenerateUUIDV7(), email, invitedBy, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, group); err != nil {
		return nil, err
	}
	return invite, nil
}

// AcceptInvite turns a pending invite into a membership.
func (s *Service) AcceptInvite(ctx context.Context, groupID, inviteID string, member types.GroupMember) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if err := acceptInvite(group, inviteID, member, time.Now()); err != nil {
		return err
	}
	return s.save(ctx, group)
}

// AddSharedSubscription links a subscription into the group with splits
// computed for the current member list.
func (s *Service) AddSharedSubscription(ctx context.Context, groupID string, sub models.Subscription, splitType types.SplitType, values map[string]float64, paidBy, addedBy string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if findMember(group.Members.Data(), addedBy) == nil {
		return apperr.Permission("not a member of group %s", groupID)
	}

	shared := group.SharedSubscriptions.Data()
	for _, existing := range shared {
		if existing.SubscriptionID == sub.ID {
			return apperr.Invariant("subscription already shared: %s", sub.ID)
		}
	}

	entry, err := NewSharedSubscription(sub, group.Members.Data(), splitType, values, paidBy, addedBy, time.Now())
	if err != nil {
		return err
	}
	setShared(group, append(shared, entry))
	return s.save(ctx, group)
}

// UpdateCostSplits replaces the splits of one shared subscription.
func (s *Service) UpdateCostSplits(ctx context.Context, groupID, subscriptionID string, splits []types.CostSplit, requestingID string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if findMember(group.Members.Data(), requestingID) == nil {
		return apperr.Permission("not a member of group %s", groupID)
	}

	shared := group.SharedSubscriptions.Data()
	found := false
	for i := range shared {
		if shared[i].SubscriptionID == subscriptionID {
			shared[i].Splits = splits
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("shared subscription not found: %s", subscriptionID)
	}
	setShared(group, shared)
	return s.save(ctx, group)
}

// RemoveSharedSubscription unlinks a subscription from the group.
func (s *Service) RemoveSharedSubscription(ctx context.Context, groupID, subscriptionID, requestingID string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if findMember(group.Members.Data(), requestingID) == nil {
		return apperr.Permission("not a member of group %s", groupID)
	}

	shared := group.SharedSubscriptions.Data()
	kept := make([]types.SharedSubscription, 0, len(shared))
	for _, entry := range shared {
		if entry.SubscriptionID != subscriptionID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(shared) {
		return apperr.NotFound("shared subscription not found: %s", subscriptionID)
	}
	setShared(group, kept)
	return s.save(ctx, group)
}

// RemoveMember removes a non-owner member and strips their splits.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID, requestingID string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if err := removeMember(group, memberID, requestingID); err != nil {
		return err
	}
	return s.save(ctx, group)
}

// GroupSummary computes the requesting member's cost summary.
func (s *Service) GroupSummary(ctx context.Context, groupID, userID string) (*Summary, error) {
	group, err := s.GetGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(group, userID)
	return &summary, nil
}

func (s *Service) load(ctx context.Context, groupID string) (*models.FamilyGroup, error) {
	var group models.FamilyGroup
	err := s.db.WithContext(ctx).Where("id = ?", groupID).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("group not found: %s", groupID)
		}
		return nil, apperr.Transient(err, fmt.Sprintf("failed to load group %s", groupID))
	}
	return &group, nil
}

// save writes the whole group document back. Concurrent editors race with
// last-writer-wins; there is no version token.
func (s *Service) save(ctx context.Context, group *models.FamilyGroup) error {
	if err := s.db.WithContext(ctx).Save(group).Error; err != nil {
		return apperr.Transient(err, "failed to save group")
	}
	return nil
}

func setMembers(group *models.FamilyGroup, members []types.GroupMember) {
	group.Members = datatypes.NewJSONType(members)
}

func setInvites(group *models.FamilyGroup, invites []types.GroupInvite) {
	group.Invites = datatypes.NewJSONType(invites)
}

func setShared(group *models.FamilyGroup, shared []types.SharedSubscription) {
	group.SharedSubscriptions = datatypes.NewJSONType(shared)
}
