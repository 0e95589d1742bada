package domain

import "time"

type Flight struct {
	ID            int64
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64
}

// FlightListItem is the annotated list shape: route and airplane flattened
// to display strings, tickets_available recomputed at query time.
type FlightListItem struct {
	ID               int64
	Route            string
	Airplane         string
	AirplaneNumSeats int
	TicketsAvailable int
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Crew             []string
}

// FlightDetail nests the full route, airplane and crew plus the seats
// already taken on the flight.
type FlightDetail struct {
	ID            int64
	Route         RouteDetail
	Airplane      Airplane
	TakenSeats    []SeatRef
	DepartureTime time.Time
	ArrivalTime   time.Time
	Crew          []Crew
}

type SeatRef struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// FlightFilter narrows flight lists. Departure/Arrival match on the
// calendar day only.
type FlightFilter struct {
	RouteIDs  []int64
	Departure *time.Time
	Arrival   *time.Time
}
