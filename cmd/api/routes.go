package main

import (
	"net/http"
	"time"

	"call-assistant/internal/auth"
	"call-assistant/internal/dashboard"
	"call-assistant/internal/telephony"
	"call-assistant/pkg/logger"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	Auth      *auth.Manager
	Voice     *telephony.Handler
	Dashboard dashboard.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public).
	// NOTE: These endpoints should be protected by Twilio signature validation in production.
	webhooks := r.Group("/webhooks/twilio")
	{
		webhooks.POST("/voice", deps.Voice.HandleIncoming)
		webhooks.POST("/process", deps.Voice.HandleProcess)
		webhooks.POST("/followup", deps.Voice.HandleFollowup)
		webhooks.POST("/status", deps.Voice.HandleStatus)
	}

	// Dashboard API.
	v1 := r.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", loginHandler(deps.Auth))
			authGroup.POST("/refresh", refreshHandler(deps.Auth))
		}

		calls := v1.Group("/calls")
		calls.Use(auth.RequireAccessToken(deps.Auth))
		{
			calls.GET("/logs", deps.Dashboard.Logs)
			calls.GET("/active", deps.Dashboard.Active)
			calls.GET("/stats", deps.Dashboard.Stats)
		}
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func loginHandler(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		pair, err := m.Login(time.Now(), req.Password)
		if err != nil {
			logger.FromGin(c).Warn("dashboard login rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}

func refreshHandler(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		pair, err := m.Refresh(req.RefreshToken, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}
