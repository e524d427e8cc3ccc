package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marcrz/naviera-booking/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"reserve available seat", model.SeatStateAvailable, model.SeatStateReserved, true},
		{"pay reserved seat", model.SeatStateReserved, model.SeatStateOccupied, true},
		{"release reserved seat", model.SeatStateReserved, model.SeatStateAvailable, true},
		{"free occupied seat", model.SeatStateOccupied, model.SeatStateAvailable, true},
		{"occupy available seat directly", model.SeatStateAvailable, model.SeatStateOccupied, false},
		{"reserve occupied seat", model.SeatStateOccupied, model.SeatStateReserved, false},
		{"reserve reserved seat", model.SeatStateReserved, model.SeatStateReserved, false},
		{"no-op on available", model.SeatStateAvailable, model.SeatStateAvailable, false},
		{"unknown from state", "pending", model.SeatStateReserved, false},
		{"unknown to state", model.SeatStateAvailable, "pending", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestHoldLapsed(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	active := func(exp time.Time) *model.Booking {
		return &model.Booking{Status: model.BookingActive, ExpiresAt: exp}
	}

	assert.True(t, holdLapsed(active(now.Add(-time.Second)), now))
	assert.False(t, holdLapsed(active(now.Add(time.Minute)), now))
	assert.False(t, holdLapsed(active(now), now), "deadline itself is still inside the hold")

	paid := active(now.Add(-time.Hour))
	paid.Paid = true
	assert.False(t, holdLapsed(paid, now))

	cancelled := active(now.Add(-time.Hour))
	cancelled.Status = model.BookingCancelled
	assert.False(t, holdLapsed(cancelled, now))
}
