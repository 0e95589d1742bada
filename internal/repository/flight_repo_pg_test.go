package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/skyfare/airline-service/internal/domain"
)

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

func TestBuildFlightWhere(t *testing.T) {
	args := make([]interface{}, 0)
	assert.Equal(t, "", buildFlightWhere(domain.FlightFilter{}, &args))
	assert.Empty(t, args)

	departure := time.Date(2023, 7, 11, 0, 0, 0, 0, time.UTC)
	args = make([]interface{}, 0)
	where := buildFlightWhere(domain.FlightFilter{
		RouteIDs:  []int64{1, 2},
		Departure: &departure,
	}, &args)

	assert.Equal(t, " WHERE f.route_id = ANY($1) AND f.departure_time::date = $2::date", where)
	assert.Len(t, args, 2)
	assert.Equal(t, "2023-07-11", args[1])
}
