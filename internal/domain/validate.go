package domain

import (
	"fmt"
	"time"
)

// ValidateSeatRow checks a ticket's seat coordinates against the airplane
// layout. The same routine backs both request validation and the write path,
// so the two can never diverge.
func ValidateSeatRow(row, seat, rows, seatsInRow int) error {
	checks := []struct {
		value int
		field string
		attr  string
		limit int
	}{
		{row, "row", "rows", rows},
		{seat, "seat", "seats_in_row", seatsInRow},
	}
	for _, c := range checks {
		if c.value < 1 || c.value > c.limit {
			return &ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)", c.field, c.attr, c.limit),
			}
		}
	}
	return nil
}

// ValidateFlightTimes checks the temporal ordering of a flight. now is the
// wall clock read at write time; the check is never re-evaluated later.
func ValidateFlightTimes(departure, arrival, now time.Time) error {
	if departure.Before(now) {
		return &ValidationError{
			Field:   "departure_time",
			Message: fmt.Sprintf("departure time must not be earlier than now (%s)", now.Format(time.RFC3339)),
		}
	}
	if arrival.Before(departure) {
		return &ValidationError{
			Field:   "arrival_time",
			Message: "arrival time must not be earlier than departure time",
		}
	}
	return nil
}
