package models

import (
	"strings"
	"time"
)

// FlightRecord is one scheduled flight occurrence as delivered by the
// ingestion boundary. Records are immutable once loaded; every analysis
// component treats them as read-only input.
type FlightRecord struct {
	FlightNumber string    `json:"flight_number"`
	Route        string    `json:"route"` // "ORIGIN-DESTINATION"
	Date         string    `json:"date"`  // calendar-day key, e.g. "2025-07-19"
	ScheduledDep time.Time `json:"scheduled_departure"`
	ActualDep    time.Time `json:"actual_departure"`
	ScheduledArr time.Time `json:"scheduled_arrival"`
	ActualArr    time.Time `json:"actual_arrival"`

	// Signed delay minutes; early departures/arrivals are negative.
	DepDelayMin float64 `json:"departure_delay_minutes"`
	ArrDelayMin float64 `json:"arrival_delay_minutes"`
	DurationMin float64 `json:"duration_minutes"`

	HourOfDay int  `json:"hour_of_day"` // 0-23, from the scheduled departure
	DayOfWeek int  `json:"day_of_week"` // 0=Monday .. 6=Sunday
	Weekend   bool `json:"is_weekend"`
	PeakTime  bool `json:"is_peak_time"`
}

// Origin returns the route's origin airport code, or "" when the route has
// no "-" separator.
func (r FlightRecord) Origin() string {
	if i := strings.Index(r.Route, "-"); i >= 0 {
		return r.Route[:i]
	}
	return ""
}

// Destination returns the route's destination airport code, or "" when the
// route has no "-" separator.
func (r FlightRecord) Destination() string {
	if i := strings.Index(r.Route, "-"); i >= 0 {
		return r.Route[i+1:]
	}
	return ""
}

// TotalDelayMin is the combined departure + arrival delay for the record.
func (r FlightRecord) TotalDelayMin() float64 {
	return r.DepDelayMin + r.ArrDelayMin
}

// IsPeakHour reports whether an hour falls in a peak traffic window
// (06:00-09:59 morning bank, 17:00-20:59 evening bank).
func IsPeakHour(hour int) bool {
	return (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 20)
}
