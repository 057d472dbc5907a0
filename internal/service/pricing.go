package service

import "time"

// ExtraUnitPrices is the per-day price of each optional add-on. Codes not
// listed here are accepted and cost nothing.
var ExtraUnitPrices = map[string]float64{
	"ek_surucu":     150,
	"bebek_koltugu": 100,
	"gps":           75,
	"tam_kasko":     200,
	"mini_hasar":    100,
}

// RentalDays counts whole 24h periods between pickup and return, with a
// minimum of one billable day.
func RentalDays(pickup, ret time.Time) int {
	days := int(ret.Sub(pickup) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}

// Quote prices a rental: extras are charged per day on top of the daily rate.
func Quote(dailyPrice float64, days int, extras []string) (extrasPrice, total float64) {
	var perDay float64
	for _, e := range extras {
		perDay += ExtraUnitPrices[e]
	}
	extrasPrice = perDay * float64(days)
	total = dailyPrice*float64(days) + extrasPrice
	return extrasPrice, total
}
