package sync

import (
	"testing"

	"bookastay/models"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	ev := Event{UID: "abc@airbnb.com", CheckIn: "2025-06-10", CheckOut: "2025-06-14"}

	t.Run("unknown uid, free dates", func(t *testing.T) {
		assert.Equal(t, Insert, Decide(nil, nil, ev, "room1"))
	})

	t.Run("same uid, same dates and room", func(t *testing.T) {
		existing := &models.Reservation{AirbnbUID: ev.UID, RoomType: "room1", CheckIn: ev.CheckIn, CheckOut: ev.CheckOut}
		assert.Equal(t, Skip, Decide(existing, nil, ev, "room1"))
	})

	t.Run("same uid, drifted dates", func(t *testing.T) {
		existing := &models.Reservation{AirbnbUID: ev.UID, RoomType: "room1", CheckIn: "2025-06-10", CheckOut: "2025-06-12"}
		assert.Equal(t, Update, Decide(existing, nil, ev, "room1"))
	})

	t.Run("same uid, drifted room", func(t *testing.T) {
		existing := &models.Reservation{AirbnbUID: ev.UID, RoomType: "room1", CheckIn: ev.CheckIn, CheckOut: ev.CheckOut}
		assert.Equal(t, Update, Decide(existing, nil, ev, "room2"))
	})

	t.Run("unknown uid colliding with local reservation", func(t *testing.T) {
		local := &models.Reservation{Source: models.SourceWebsite, Status: models.StatusConfirmed}
		assert.Equal(t, Skip, Decide(nil, local, ev, "room1"))
	})
}
