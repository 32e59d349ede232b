package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SUMMERxKx/nwHacks/internal/auth"
	"github.com/SUMMERxKx/nwHacks/internal/ratelimit"
)

// NewRouter wires every route. limiter may be nil, which disables rate
// limiting on the insight endpoints.
func NewRouter(app App, provider auth.Provider, limiter ratelimit.Allower) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), RequestIDMiddleware(), CORSMiddleware(app.Config().CORSOrigin), AccessLogMiddleware(app.Logger()))
	r.NoMethod(MethodNotAllowed)
	r.NoRoute(NotFound)

	requireAuth := auth.AuthMiddleware(provider, app.Config())

	r.GET("/api/health", GetHealth(app))

	insights := []gin.HandlerFunc{requireAuth}
	if limiter != nil {
		insights = append(insights, ratelimit.Middleware(limiter, app.Logger()))
	}
	routes := map[string]gin.HandlerFunc{
		"/api/buddy-chat":           PostBuddyChat(app),
		"/api/generate-patterns":    PostPatterns(app),
		"/api/generate-wins":        PostWins(app),
		"/api/generate-blind-spots": PostBlindSpots(app),
	}
	for path, h := range routes {
		r.OPTIONS(path, Preflight)
		r.POST(path, append(insights[:len(insights):len(insights)], h)...)
	}

	r.OPTIONS("/api/checkins", Preflight)
	r.OPTIONS("/api/checkins/:date", Preflight)
	checkIns := r.Group("/api/checkins", requireAuth)
	checkIns.POST("", PostCheckIn(app))
	checkIns.GET("", ListCheckIns(app))
	checkIns.GET("/stats", GetCheckInStats(app))
	checkIns.GET("/:date", GetCheckIn(app))
	checkIns.DELETE("/:date", DeleteCheckIn(app))

	return r
}
