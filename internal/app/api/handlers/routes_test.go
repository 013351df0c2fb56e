package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterSubscriptionRoutes(g, nil)
	RegisterAlertRoutes(g, nil)
	RegisterUserRoutes(g, nil)
	RegisterGroupRoutes(g, nil, nil)
	RegisterStatsRoutes(g, nil, nil, nil)
	RegisterExportRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/subscriptions"))
	require.True(t, contains("POST /api/v1/subscriptions"))
	require.True(t, contains("PUT /api/v1/subscriptions/:id"))
	require.True(t, contains("DELETE /api/v1/subscriptions/:id"))
	require.True(t, contains("GET /api/v1/alerts"))
	require.True(t, contains("POST /api/v1/alerts/dismiss_all"))
	require.True(t, contains("PUT /api/v1/settings/notifications"))
	require.True(t, contains("POST /api/v1/groups"))
	require.True(t, contains("POST /api/v1/groups/:id/invites/:invite_id/accept"))
	require.True(t, contains("GET /api/v1/groups/:id/summary"))
	require.True(t, contains("GET /api/v1/stats/overview"))
	require.True(t, contains("GET /api/v1/timeline/week"))
	require.True(t, contains("GET /api/v1/export/calendar.ics"))
	require.True(t, contains("POST /api/v1/import/subscriptions"))
	require.True(t, contains("GET /api/v1/export/subscriptions.csv"))
}
