package services

import (
	"fmt"
	"time"
)

// PriceQuote breaks down the cost of a stay.
type PriceQuote struct {
	RoomTotal      float64 `json:"room_total"`
	ReservationFee float64 `json:"reservation_fee"`
	GrandTotal     float64 `json:"grand_total"`
}

// PricingService computes stay totals. It is a pure calculator: the
// discount percentage must already be within [0,100], since no clamping
// happens here.
type PricingService struct {
	reservationFee float64
}

// NewPricingService creates a new PricingService with the flat fee added
// to every stay.
func NewPricingService(reservationFee float64) *PricingService {
	return &PricingService{reservationFee: reservationFee}
}

// Quote computes base_price x rooms x nights with the percentage discount
// applied, plus the flat reservation fee.
func (s *PricingService) Quote(basePrice float64, rooms, nights int, discountPct float64) (PriceQuote, error) {
	if basePrice < 0 {
		return PriceQuote{}, fmt.Errorf("base price cannot be negative")
	}
	if rooms < 1 {
		return PriceQuote{}, fmt.Errorf("number of rooms must be at least 1")
	}
	if nights < 1 {
		return PriceQuote{}, fmt.Errorf("stay must be at least one night")
	}
	if discountPct < 0 || discountPct > 100 {
		return PriceQuote{}, fmt.Errorf("discount percentage must be between 0 and 100")
	}

	roomTotal := basePrice * float64(rooms) * float64(nights) * (1 - discountPct/100)

	return PriceQuote{
		RoomTotal:      roomTotal,
		ReservationFee: s.reservationFee,
		GrandTotal:     roomTotal + s.reservationFee,
	}, nil
}

// NightsBetween returns the stay length in whole days between check-in
// and check-out.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
