package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/auth"
	"github.com/SUMMERxKx/nwHacks/internal/service"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

func PostCheckIn(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.CheckInRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if err := service.ValidateCheckInRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		checkIn, err := service.SaveCheckIn(c.Request.Context(), app.CheckInRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save check-in")
			return
		}

		HandleSuccess(c, app.Logger(), checkIn, nil)
	}
}

// ListCheckIns returns the user's check-ins between ?start and ?end, newest
// first. Without a range it returns the last 30 days.
func ListCheckIns(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		w := window.LastDays(30, time.Now())
		if s := c.Query("start"); s != "" {
			w.Start = s
		}
		if e := c.Query("end"); e != "" {
			w.End = e
		}
		if err := validateRange(w); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date range")
			return
		}

		checkIns, err := app.CheckInRepo().ListCheckIns(c.Request.Context(), user.ID, w.Start, w.End)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch check-ins")
			return
		}

		sortNewestFirst(checkIns)
		HandleSuccess(c, app.Logger(), checkIns, map[string]any{"start": w.Start, "end": w.End, "count": len(checkIns)})
	}
}

func GetCheckIn(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		checkIn, err := app.CheckInRepo().GetCheckIn(c.Request.Context(), user.ID, c.Param("date"))
		if errors.Is(err, internal.ErrNotFound) {
			HandleError(c, app.Logger(), err, http.StatusNotFound, "Check-in not found")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch check-in")
			return
		}
		HandleSuccess(c, app.Logger(), checkIn, nil)
	}
}

func DeleteCheckIn(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		date := c.Param("date")

		err := app.CheckInRepo().DeleteCheckIn(c.Request.Context(), user.ID, date)
		if errors.Is(err, internal.ErrNotFound) {
			HandleError(c, app.Logger(), err, http.StatusNotFound, "Check-in not found")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to delete check-in")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"date": date}, nil)
	}
}

func GetCheckInStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		period := window.ParseAny(c.DefaultQuery("period", "7"))

		stats, err := service.GetCheckInStats(c.Request.Context(), app.CheckInRepo(), user, period, time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch check-ins for stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func validateRange(w window.Window) error {
	start, err := time.Parse(window.DateLayout, w.Start)
	if err != nil {
		return err
	}
	end, err := time.Parse(window.DateLayout, w.End)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return errors.New("end is before start")
	}
	return nil
}

func sortNewestFirst(checkIns []internal.CheckIn) {
	sort.Slice(checkIns, func(i, j int) bool { return checkIns[i].Date > checkIns[j].Date })
}
