package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	"github.com/subtracker/subtracker/internal/app/service/sharing"
	subsvc "github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/pkg/response"
	"github.com/subtracker/subtracker/pkg/types"
)

func callerMember(c *gin.Context, role types.GroupRole) types.GroupMember {
	return types.GroupMember{
		UserID:      mw.UserID(c),
		Email:       mw.UserEmail(c),
		DisplayName: mw.UserName(c),
		Role:        role,
		JoinedAt:    time.Now(),
	}
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

// @Summary      Create family group
// @Description  Creates a group with the caller as its sole owner.
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group name"
// @Success      200  {object}  response.APIResponse[models.FamilyGroup]
// @Router       /api/v1/groups [post]
func ApiCreateGroup(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		group, err := svc.CreateGroup(c.Request.Context(), callerMember(c, types.GroupRoleOwner), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(group))
	}
}

// @Summary      List my groups
// @Tags         Groups
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.FamilyGroup]
// @Router       /api/v1/groups [get]
func ApiListGroups(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := svc.ListUserGroups(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(groups))
	}
}

// @Summary      Get group
// @Tags         Groups
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Success      200  {object}  response.APIResponse[models.FamilyGroup]
// @Router       /api/v1/groups/{id} [get]
func ApiGetGroup(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := svc.GetGroup(c.Request.Context(), c.Param("id"), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(group))
	}
}

// @Summary      Delete group
// @Description  Owner-only. Deleting the group document cascades to its shared subscriptions.
// @Tags         Groups
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id} [delete]
func ApiDeleteGroup(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteGroup(c.Request.Context(), c.Param("id"), mw.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type SendInviteRequest struct {
	Email string `json:"email"`
}

// @Summary      Send group invite
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Param        request body SendInviteRequest true "Invitee email"
// @Success      200  {object}  response.APIResponse[types.GroupInvite]
// @Router       /api/v1/groups/{id}/invites [post]
func ApiSendInvite(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendInviteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		invite, err := svc.SendInvite(c.Request.Context(), c.Param("id"), req.Email, mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(invite))
	}
}

// @Summary      Accept group invite
// @Description  Fails unless the invite is pending, unexpired and addressed to the caller's email.
// @Tags         Groups
// @Produce      json
// @Param        id         path  string  true  "Group ID"
// @Param        invite_id  path  string  true  "Invite ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id}/invites/{invite_id}/accept [post]
func ApiAcceptInvite(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.AcceptInvite(c.Request.Context(), c.Param("id"), c.Param("invite_id"),
			callerMember(c, types.GroupRoleMember))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type ShareSubscriptionRequest struct {
	SubscriptionID string             `json:"subscription_id"`
	SplitType      string             `json:"split_type"`
	Values         map[string]float64 `json:"values"`
	PaidBy         string             `json:"paid_by"`
}

// @Summary      Share subscription with group
// @Description  Snapshots the caller's subscription into the group and computes per-member cost splits.
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Param        request body ShareSubscriptionRequest true "Share parameters"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id}/subscriptions [post]
func ApiShareSubscription(group *sharing.Service, subs *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShareSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		splitType, err := types.ParseSplitType(req.SplitType)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		userID := mw.UserID(c)
		view, err := subs.Get(c.Request.Context(), userID, req.SubscriptionID)
		if err != nil {
			respondError(c, err)
			return
		}

		paidBy := req.PaidBy
		if paidBy == "" {
			paidBy = userID
		}
		err = group.AddSharedSubscription(c.Request.Context(), c.Param("id"),
			view.Subscription, splitType, req.Values, paidBy, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type UpdateSplitsRequest struct {
	Splits []types.CostSplit `json:"splits"`
}

// @Summary      Update cost splits
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "Group ID"
// @Param        sub_id  path  string  true  "Shared subscription ID"
// @Param        request body UpdateSplitsRequest true "Replacement splits"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id}/subscriptions/{sub_id}/splits [put]
func ApiUpdateSplits(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateSplitsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		err := svc.UpdateCostSplits(c.Request.Context(), c.Param("id"), c.Param("sub_id"), req.Splits, mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Remove shared subscription
// @Tags         Groups
// @Produce      json
// @Param        id      path  string  true  "Group ID"
// @Param        sub_id  path  string  true  "Shared subscription ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id}/subscriptions/{sub_id} [delete]
func ApiRemoveSharedSubscription(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.RemoveSharedSubscription(c.Request.Context(), c.Param("id"), c.Param("sub_id"), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Remove group member
// @Description  Owner/admin only; the owner can never be removed. The member's splits are stripped without re-splitting.
// @Tags         Groups
// @Produce      json
// @Param        id         path  string  true  "Group ID"
// @Param        member_id  path  string  true  "Member user ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/groups/{id}/members/{member_id} [delete]
func ApiRemoveMember(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("member_id"), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Group cost summary
// @Description  Total monthly cost, the caller's share and the resulting savings, in the reference currency.
// @Tags         Groups
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Success      200  {object}  response.APIResponse[sharing.Summary]
// @Router       /api/v1/groups/{id}/summary [get]
func ApiGroupSummary(svc *sharing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.GroupSummary(c.Request.Context(), c.Param("id"), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(summary))
	}
}

func RegisterGroupRoutes(r gin.IRouter, group *sharing.Service, subs *subsvc.Service) {
	r.POST("/groups", ApiCreateGroup(group))
	r.GET("/groups", ApiListGroups(group))
	r.GET("/groups/:id", ApiGetGroup(group))
	r.DELETE("/groups/:id", ApiDeleteGroup(group))
	r.GET("/groups/:id/summary", ApiGroupSummary(group))
	r.POST("/groups/:id/invites", ApiSendInvite(group))
	r.POST("/groups/:id/invites/:invite_id/accept", ApiAcceptInvite(group))
	r.POST("/groups/:id/subscriptions", ApiShareSubscription(group, subs))
	r.PUT("/groups/:id/subscriptions/:sub_id/splits", ApiUpdateSplits(group))
	r.DELETE("/groups/:id/subscriptions/:sub_id", ApiRemoveSharedSubscription(group))
	r.DELETE("/groups/:id/members/:member_id", ApiRemoveMember(group))
}
