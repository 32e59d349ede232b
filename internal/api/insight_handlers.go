package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/auth"
	"github.com/SUMMERxKx/nwHacks/internal/response"
	"github.com/SUMMERxKx/nwHacks/internal/service"
)

// Insight endpoints answer 200 with a fallback payload on any internal
// failure; only caller mistakes get an error status.

func PostBuddyChat(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.ChatRequest
		if err := bindOptionalJSON(c, &body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		reply, err := app.Insights().Chat(c.Request.Context(), user.ID, body)
		writeInsight(c, app, reply, err, "message is required")
	}
}

func PostPatterns(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.PeriodRequest
		if err := bindOptionalJSON(c, &body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		patterns, err := app.Insights().Patterns(c.Request.Context(), user.ID, body)
		writeInsight(c, app, patterns, err, "Invalid request")
	}
}

func PostWins(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.PeriodRequest
		if err := bindOptionalJSON(c, &body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		wins, err := app.Insights().Wins(c.Request.Context(), user.ID, body)
		writeInsight(c, app, wins, err, "Invalid request")
	}
}

func PostBlindSpots(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.PeriodRequest
		if err := bindOptionalJSON(c, &body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		spots, err := app.Insights().BlindSpots(c.Request.Context(), user.ID, body)
		writeInsight(c, app, spots, err, "Invalid request")
	}
}

// writeInsight answers 400 when the request was rejected before the pipeline
// ran. Any other outcome already carries a usable result or fallback.
func writeInsight[T any](c *gin.Context, app App, result T, err error, msg string) {
	if errors.Is(err, internal.ErrInvalidArgument) {
		app.Logger().Warnf("[request_id=%s] rejected insight request: %v", c.GetString("request_id"), err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}
	if err != nil {
		app.Logger().Errorf("[request_id=%s] insight request failed: %v", c.GetString("request_id"), err)
	}
	c.JSON(http.StatusOK, result)
}

func GetHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := app.Config()
		c.JSON(http.StatusOK, gin.H{
			"ok":  true,
			"api": true,
			"env": gin.H{
				"hasLLM":     cfg.HasLLM(),
				"hasStorage": cfg.HasStorage(),
			},
		})
	}
}
