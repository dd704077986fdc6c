package booking

import (
	"math"
	"time"

	"bookastay/config"
	"bookastay/models"
	"bookastay/services/availability"
)

// Pricing holds the rate card. Amounts are in naira.
type Pricing struct {
	EntireRate         float64
	RoomRate           float64
	CleaningFee        float64
	ServiceFee         float64
	ExtraGuestPerNight float64
	IncludedGuests     int
	MinNightsRoom      int
}

// PricingFromConfig builds the rate card from the loaded configuration.
func PricingFromConfig() Pricing {
	cfg := config.AppConfig
	return Pricing{
		EntireRate:         cfg.PriceEntireApartment,
		RoomRate:           cfg.PriceSingleRoom,
		CleaningFee:        cfg.CleaningFee,
		ServiceFee:         cfg.ServiceFee,
		ExtraGuestPerNight: cfg.ExtraGuestPerNight,
		IncludedGuests:     cfg.IncludedGuests,
		MinNightsRoom:      cfg.MinNightsSingleRoom,
	}
}

// Quote is the computed price breakdown for a stay.
type Quote struct {
	Nights        int     `json:"nights"`
	BaseRate      float64 `json:"base_rate"`
	ExtraGuestFee float64 `json:"extra_guest_fee"`
	CleaningFee   float64 `json:"cleaning_fee"`
	ServiceFee    float64 `json:"service_fee"`
	Total         float64 `json:"total"`
}

// QuoteStay prices a stay: base rate (entire vs sub-room) times nights,
// plus fixed cleaning and service fees, plus a per-night surcharge for each
// guest beyond the included count.
func (p Pricing) QuoteStay(roomType string, nights, guests int) Quote {
	baseRate := p.RoomRate
	if availability.IsEntire(roomType) {
		baseRate = p.EntireRate
	}
	extra := float64(0)
	if guests > p.IncludedGuests {
		extra = float64(guests-p.IncludedGuests) * p.ExtraGuestPerNight * float64(nights)
	}
	return Quote{
		Nights:        nights,
		BaseRate:      baseRate,
		ExtraGuestFee: extra,
		CleaningFee:   p.CleaningFee,
		ServiceFee:    p.ServiceFee,
		Total:         baseRate*float64(nights) + p.CleaningFee + p.ServiceFee + extra,
	}
}

// nightsBetween counts the nights in [in, out) as whole days, rounding up.
func nightsBetween(checkIn, checkOut string) int {
	in, errIn := time.Parse(models.DateLayout, checkIn)
	out, errOut := time.Parse(models.DateLayout, checkOut)
	if errIn != nil || errOut != nil {
		return 0
	}
	diff := out.Sub(in).Hours() / 24
	return int(math.Ceil(math.Abs(diff)))
}
