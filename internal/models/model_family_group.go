package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtracker/subtracker/pkg/types"
)

// FamilyGroup is a cost-splitting unit stored document-style: members,
// invites and shared subscriptions live in JSON columns and every mutation
// is a whole-document read-modify-write. Concurrent editors race with
// last-writer-wins semantics; there is no version token.
type FamilyGroup struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name    string `gorm:"column:name;type:varchar(256);not null" json:"name"`
	OwnerID string `gorm:"column:owner_id;type:varchar(64);not null;index" json:"owner_id"`
	// Members always contains exactly one owner-role entry.
	Members             datatypes.JSONType[[]types.GroupMember]        `gorm:"column:members;type:jsonb" json:"members"`
	Invites             datatypes.JSONType[[]types.GroupInvite]        `gorm:"column:invites;type:jsonb" json:"invites"`
	SharedSubscriptions datatypes.JSONType[[]types.SharedSubscription] `gorm:"column:shared_subscriptions;type:jsonb" json:"shared_subscriptions"`
	CreatedAt           time.Time                                      `json:"created_at"`
	UpdatedAt           time.Time                                      `json:"updated_at"`
}

func (FamilyGroup) TableName() string { return "family_group" }
