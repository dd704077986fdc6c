package availability

import (
	"context"
	"fmt"
	"time"

	"bookastay/models"
)

// ReasonInvalidRange marks a resolver verdict caused by an unparseable or
// inverted date range rather than a real conflict. Callers must branch on
// it (surface a 400, not a 409).
const ReasonInvalidRange = "Invalid date range"

// OverlapResult is the resolver's verdict for one requested stay.
type OverlapResult struct {
	Overlapping bool                `json:"overlapping"`
	Blocking    *models.Reservation `json:"blocking,omitempty"`
	Reason      string              `json:"reason,omitempty"`
}

// InvalidRange reports whether the verdict is a validation failure rather
// than a store-backed conflict.
func (r OverlapResult) InvalidRange() bool {
	return r.Reason == ReasonInvalidRange
}

// ActiveOverlapFinder is the slice of the reservation store the resolver
// needs: one active (confirmed or blocked) record intersecting a half-open
// date interval, or nil. An empty roomType matches any room.
type ActiveOverlapFinder interface {
	FirstActiveOverlap(ctx context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error)
}

// Resolver decides whether a requested date range for a room scope
// conflicts with any active reservation. It is read-only and safe to call
// repeatedly; callers use it both as a pre-check and as an immediate
// pre-insert re-check.
type Resolver struct {
	Repo ActiveOverlapFinder
}

// CheckOverlap applies the topology rules:
//   - entire scope conflicts with any active reservation on any room;
//   - a sub-room conflicts first with any active entire-apartment
//     reservation (checked first and reported preferentially), then with
//     active reservations on the same sub-room.
//
// Intervals are half-open: the checkout day is free for a new check-in.
func (r *Resolver) CheckOverlap(ctx context.Context, roomType, checkIn, checkOut string) (OverlapResult, error) {
	in, errIn := time.Parse(models.DateLayout, checkIn)
	out, errOut := time.Parse(models.DateLayout, checkOut)
	if errIn != nil || errOut != nil || !out.After(in) {
		return OverlapResult{Overlapping: true, Reason: ReasonInvalidRange}, nil
	}

	room := NormalizeRoom(roomType)

	if room == RoomEntire {
		blocking, err := r.Repo.FirstActiveOverlap(ctx, "", checkIn, checkOut)
		if err != nil {
			return OverlapResult{}, err
		}
		if blocking != nil {
			return conflict(blocking, "Entire apartment"), nil
		}
		return OverlapResult{}, nil
	}

	// An entire-apartment block always wins and is reported before any
	// same-room conflict.
	blocking, err := r.Repo.FirstActiveOverlap(ctx, RoomEntire, checkIn, checkOut)
	if err != nil {
		return OverlapResult{}, err
	}
	if blocking != nil {
		return conflict(blocking, "Entire apartment"), nil
	}

	blocking, err = r.Repo.FirstActiveOverlap(ctx, room, checkIn, checkOut)
	if err != nil {
		return OverlapResult{}, err
	}
	if blocking != nil {
		return conflict(blocking, room), nil
	}

	return OverlapResult{}, nil
}

func conflict(blocking *models.Reservation, label string) OverlapResult {
	return OverlapResult{
		Overlapping: true,
		Blocking:    blocking,
		Reason:      fmt.Sprintf("%s is booked from %s to %s", label, blocking.CheckIn, blocking.CheckOut),
	}
}
