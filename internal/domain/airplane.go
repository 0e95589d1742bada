package domain

type Airplane struct {
	ID             int64
	Name           string
	Rows           int
	SeatsInRow     int
	AirplaneTypeID *int64
	TypeName       string
	AirCompanyID   *int64
	CompanyName    string
}

func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

// SeatLayout is the part of an airplane the ticket validator needs.
type SeatLayout struct {
	Rows       int
	SeatsInRow int
}
