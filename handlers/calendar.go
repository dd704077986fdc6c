package handlers

import (
	"fmt"
	"net/http"
	"time"

	reservationRepo "bookastay/database/repository/reservation"
	"bookastay/models"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler publishes the property's availability as an iCal feed,
// for Airbnb and other platforms to import.
type CalendarHandler struct {
	Repo reservationRepo.ReservationRepository
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(repo reservationRepo.ReservationRepository) *CalendarHandler {
	return &CalendarHandler{Repo: repo}
}

// ExportHandler serves active stays as all-day VEVENTs. Only the dates are
// published; guest details never leave the system. An optional room query
// narrows the feed to one room scope.
func (ch *CalendarHandler) ExportHandler(c *gin.Context) {
	room := c.Query("room")

	all, err := ch.Repo.ListAll(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to build calendar export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build calendar"})
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//bookastay//Availability Calendar//EN")

	for _, res := range all {
		if !res.Active() {
			continue
		}
		if room != "" && res.RoomType != room {
			continue
		}
		start, err := time.Parse(models.DateLayout, res.CheckIn)
		if err != nil {
			continue
		}
		end, err := time.Parse(models.DateLayout, res.CheckOut)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@bookastay", res.ID))
		ev.SetSummary("Unavailable")
		ev.SetAllDayStartAt(start)
		// Published DTEND is exclusive: the day after the last night.
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ev.SetDtStampTime(time.Now())
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="availability.ics"`)
	c.String(http.StatusOK, cal.Serialize())
}
