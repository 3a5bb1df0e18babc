package calc

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trip is one on-site visit. Negative Days or People count as zero; a
// zero-day trip still books one night.
type Trip struct {
	Days   int `json:"days"`
	People int `json:"people"`
}

// TripCost is the per-component breakdown of one trip.
type TripCost struct {
	Days        int             `json:"days"`
	Nights      int             `json:"nights"`
	People      int             `json:"people"`
	AirfareCost decimal.Decimal `json:"airfare_cost"`
	HotelCost   decimal.Decimal `json:"hotel_cost"`
	PerDiemCost decimal.Decimal `json:"per_diem_cost"`
	VehicleCost decimal.Decimal `json:"vehicle_cost"`
	TripTotal   decimal.Decimal `json:"trip_total"`
}

// TravelResult sums trip costs for one travel zone.
type TravelResult struct {
	ZoneName        string          `json:"zone_name,omitempty"`
	Trips           []TripCost      `json:"trips"`
	TotalTravelCost decimal.Decimal `json:"total_travel_cost"`
}

// TravelCost prices a list of trips against a travel zone's rates. A trip
// books nights = days + 1 because the team arrives the evening before.
// A nil zone id, an empty trip list or an unknown zone yields a zero-cost
// result without an error.
func (c *Calculator) TravelCost(zoneID uuid.UUID, trips []Trip) (TravelResult, error) {
	result := TravelResult{Trips: []TripCost{}, TotalTravelCost: decimal.Zero}
	if zoneID == uuid.Nil || len(trips) == 0 {
		return result, nil
	}

	zone, err := c.accessor.GetTravelZone(zoneID)
	if err != nil {
		return TravelResult{}, err
	}
	if zone == nil {
		return result, nil
	}
	result.ZoneName = zone.Name

	for _, trip := range trips {
		days := trip.Days
		if days < 0 {
			days = 0
		}
		people := trip.People
		if people < 0 {
			people = 0
		}
		nights := days + 1

		nightsDec := decimal.NewFromInt(int64(nights))
		peopleDec := decimal.NewFromInt(int64(people))

		cost := TripCost{
			Days:        days,
			Nights:      nights,
			People:      people,
			AirfareCost: zone.AirfareEstimate.Mul(peopleDec),
			HotelCost:   zone.HotelRate.Mul(peopleDec).Mul(nightsDec),
			PerDiemCost: zone.PerDiemRate.Mul(peopleDec).Mul(nightsDec),
			VehicleCost: zone.VehicleRate.Mul(nightsDec),
		}
		cost.TripTotal = cost.AirfareCost.Add(cost.HotelCost).Add(cost.PerDiemCost).Add(cost.VehicleCost)

		result.Trips = append(result.Trips, cost)
		result.TotalTravelCost = result.TotalTravelCost.Add(cost.TripTotal)
	}
	return result, nil
}
