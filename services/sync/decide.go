package sync

import "bookastay/models"

// Action is the reconciler's verdict for one feed event.
type Action int

const (
	// Insert creates a new blocked reservation for the event.
	Insert Action = iota
	// Update rewrites the dates and room of the reservation already
	// holding the UID.
	Update
	// Skip leaves the store untouched.
	Skip
)

// Decide compares one feed event against the store's view and picks the
// minimal write. The UID is the identity key across runs: an event whose
// UID is already stored only produces a write when its dates or room
// drifted (an event can move between feeds when the host rearranges the
// listing). Website and admin reservations on the same dates win over the
// feed, so a collision with a different source is skipped rather than
// overwritten.
func Decide(existing *models.Reservation, collision *models.Reservation, ev Event, roomType string) Action {
	if existing != nil {
		if existing.CheckIn == ev.CheckIn && existing.CheckOut == ev.CheckOut && existing.RoomType == roomType {
			return Skip
		}
		return Update
	}
	if collision != nil {
		return Skip
	}
	return Insert
}
