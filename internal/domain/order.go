package domain

import "time"

// TicketSpec is a client-submitted seat request, one per ticket in an order.
type TicketSpec struct {
	FlightID int64
	Row      int
	Seat     int
}

type Ticket struct {
	ID       int64
	FlightID int64
	Row      int
	Seat     int
	OrderID  int64
	// Flight is populated for owner-facing order lists only.
	Flight *FlightListItem
}

// Order groups the tickets of one purchase. CreatedAt is server-assigned
// and immutable; tickets keep their submission order.
type Order struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	Tickets   []Ticket
}
