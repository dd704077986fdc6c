package availability

import "strings"

// Room topology: one "entire" apartment scope plus independently bookable
// sub-rooms. Booking the whole blocks all parts and vice versa.
const RoomEntire = "entire"

// NormalizeRoom lowercases a room identifier, defaulting to the entire
// apartment when empty.
func NormalizeRoom(roomType string) string {
	room := strings.ToLower(strings.TrimSpace(roomType))
	if room == "" {
		return RoomEntire
	}
	return room
}

// IsEntire reports whether the room identifier names the whole apartment.
func IsEntire(roomType string) bool {
	return NormalizeRoom(roomType) == RoomEntire
}

// Blocks reports whether a reservation on scope a excludes one on scope b.
// The entire apartment conflicts with everything; sub-rooms only conflict
// with themselves (and the entire scope).
func Blocks(a, b string) bool {
	a, b = NormalizeRoom(a), NormalizeRoom(b)
	return a == RoomEntire || b == RoomEntire || a == b
}
