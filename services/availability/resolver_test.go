package availability

import (
	"context"
	"strings"
	"testing"

	"bookastay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFinder is an in-memory ActiveOverlapFinder mirroring the store query:
// active statuses only, half-open interval, case-insensitive room match.
type memFinder struct {
	rows []models.Reservation
}

func (m *memFinder) FirstActiveOverlap(_ context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error) {
	for i := range m.rows {
		row := &m.rows[i]
		if !row.Active() {
			continue
		}
		if roomType != "" && !strings.EqualFold(row.RoomType, roomType) {
			continue
		}
		if row.CheckIn < checkOut && row.CheckOut > checkIn {
			return row, nil
		}
	}
	return nil, nil
}

func reservation(room, in, out, status string) models.Reservation {
	return models.Reservation{
		ID:       room + "-" + in,
		RoomType: room,
		CheckIn:  in,
		CheckOut: out,
		Status:   status,
	}
}

func TestCheckOverlap_InvalidRange(t *testing.T) {
	resolver := &Resolver{Repo: &memFinder{}}

	cases := []struct {
		name    string
		in, out string
	}{
		{"unparseable check-in", "not-a-date", "2025-06-05"},
		{"unparseable check-out", "2025-06-01", "someday"},
		{"inverted range", "2025-06-05", "2025-06-01"},
		{"zero-length range", "2025-06-01", "2025-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := resolver.CheckOverlap(context.Background(), "entire", tc.in, tc.out)
			require.NoError(t, err)
			assert.True(t, res.Overlapping)
			assert.True(t, res.InvalidRange())
			assert.Nil(t, res.Blocking)
		})
	}
}

func TestCheckOverlap_EntireBlocksAgainstAnyActiveRoom(t *testing.T) {
	// Scenario: confirmed room1 booking 2025-06-03..2025-06-04, request the
	// entire apartment for 2025-06-01..2025-06-05.
	finder := &memFinder{rows: []models.Reservation{
		reservation("room1", "2025-06-03", "2025-06-04", models.StatusConfirmed),
	}}
	resolver := &Resolver{Repo: finder}

	res, err := resolver.CheckOverlap(context.Background(), "entire", "2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.True(t, res.Overlapping)
	require.NotNil(t, res.Blocking)
	assert.Equal(t, "room1", res.Blocking.RoomType)
	assert.False(t, res.InvalidRange())
}

func TestCheckOverlap_SubRoomBlockedByEntire(t *testing.T) {
	// A room1 request must conflict with an active entire reservation even
	// when no room1 reservation exists, and the entire record must be the
	// reported blocker.
	finder := &memFinder{rows: []models.Reservation{
		reservation("room1", "2025-07-10", "2025-07-12", models.StatusConfirmed),
		reservation("entire", "2025-07-01", "2025-07-20", models.StatusBlocked),
	}}
	resolver := &Resolver{Repo: finder}

	res, err := resolver.CheckOverlap(context.Background(), "room1", "2025-07-10", "2025-07-12")
	require.NoError(t, err)
	assert.True(t, res.Overlapping)
	require.NotNil(t, res.Blocking)
	assert.Equal(t, "entire", res.Blocking.RoomType)
}

func TestCheckOverlap_SameRoomConflict(t *testing.T) {
	finder := &memFinder{rows: []models.Reservation{
		reservation("room2", "2025-08-01", "2025-08-05", models.StatusConfirmed),
	}}
	resolver := &Resolver{Repo: finder}

	res, err := resolver.CheckOverlap(context.Background(), "room2", "2025-08-04", "2025-08-06")
	require.NoError(t, err)
	assert.True(t, res.Overlapping)
	require.NotNil(t, res.Blocking)
	assert.Equal(t, "room2", res.Blocking.RoomType)

	// Other sub-room is unaffected.
	res, err = resolver.CheckOverlap(context.Background(), "room1", "2025-08-04", "2025-08-06")
	require.NoError(t, err)
	assert.False(t, res.Overlapping)
}

func TestCheckOverlap_PendingAndCancelledIgnored(t *testing.T) {
	finder := &memFinder{rows: []models.Reservation{
		reservation("entire", "2025-09-01", "2025-09-10", models.StatusBooked),
		reservation("entire", "2025-09-01", "2025-09-10", models.StatusCancelled),
	}}
	resolver := &Resolver{Repo: finder}

	res, err := resolver.CheckOverlap(context.Background(), "entire", "2025-09-02", "2025-09-04")
	require.NoError(t, err)
	assert.False(t, res.Overlapping)
	assert.Nil(t, res.Blocking)
}

func TestCheckOverlap_HalfOpenInterval(t *testing.T) {
	// Checkout day is free for a new check-in.
	finder := &memFinder{rows: []models.Reservation{
		reservation("entire", "2025-10-01", "2025-10-05", models.StatusConfirmed),
	}}
	resolver := &Resolver{Repo: finder}

	res, err := resolver.CheckOverlap(context.Background(), "entire", "2025-10-05", "2025-10-08")
	require.NoError(t, err)
	assert.False(t, res.Overlapping)

	// But the night before checkout still conflicts.
	res, err = resolver.CheckOverlap(context.Background(), "entire", "2025-10-04", "2025-10-08")
	require.NoError(t, err)
	assert.True(t, res.Overlapping)
}

func TestBlocks(t *testing.T) {
	assert.True(t, Blocks("entire", "room1"))
	assert.True(t, Blocks("room1", "entire"))
	assert.True(t, Blocks("room1", "ROOM1"))
	assert.False(t, Blocks("room1", "room2"))
	assert.True(t, Blocks("", "room2")) // empty normalizes to entire
}
