package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/service/flights"
)

type FlightHandler struct {
	service   flights.FlightUseCase
	paginator Paginator
}

type flightRequest struct {
	Route         int64     `json:"route" binding:"required"`
	Airplane      int64     `json:"airplane" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Crew          []int64   `json:"crew"`
}

type flightListResponse struct {
	ID               int64     `json:"id"`
	Route            string    `json:"route"`
	Airplane         string    `json:"airplane"`
	AirplaneNumSeats int       `json:"airplane_num_seats"`
	TicketsAvailable int       `json:"tickets_available"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Crew             []string  `json:"crew"`
}

type flightDetailResponse struct {
	ID            int64               `json:"id"`
	Route         routeDetailResponse `json:"route"`
	Airplane      airplaneResponse    `json:"airplane"`
	DepartureTime time.Time           `json:"departure_time"`
	ArrivalTime   time.Time           `json:"arrival_time"`
	TakenSeats    []domain.SeatRef    `json:"taken_seats"`
	Crew          []crewResponse      `json:"crew"`
}

func NewFlightHandler(service flights.FlightUseCase, paginator Paginator) *FlightHandler {
	return &FlightHandler{service: service, paginator: paginator}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	router.DELETE("/:id", admin, h.delete)
}

func toFlightListResponse(item *domain.FlightListItem) flightListResponse {
	return flightListResponse{
		ID:               item.ID,
		Route:            item.Route,
		Airplane:         item.Airplane,
		AirplaneNumSeats: item.AirplaneNumSeats,
		TicketsAvailable: item.TicketsAvailable,
		DepartureTime:    item.DepartureTime,
		ArrivalTime:      item.ArrivalTime,
		Crew:             item.Crew,
	}
}

// parseFlightFilter reads ?routes=1,2&departure=2023-07-10&arrival=...
// The dates match on the calendar day.
func parseFlightFilter(c *gin.Context) (domain.FlightFilter, error) {
	var filter domain.FlightFilter

	if raw := c.Query("routes"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return filter, &domain.ValidationError{Field: "routes", Message: "routes must be a comma-separated list of ids"}
			}
			filter.RouteIDs = append(filter.RouteIDs, id)
		}
	}
	if raw := c.Query("departure"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &domain.ValidationError{Field: "departure", Message: "date must be in YYYY-MM-DD format"}
		}
		filter.Departure = &t
	}
	if raw := c.Query("arrival"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &domain.ValidationError{Field: "arrival", Message: "date must be in YYYY-MM-DD format"}
		}
		filter.Arrival = &t
	}
	return filter, nil
}

func (h *FlightHandler) list(c *gin.Context) {
	filter, err := parseFlightFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	limit, offset := h.paginator.Limits(c)
	items, total, err := h.service.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]flightListResponse, 0, len(items))
	for i := range items {
		results = append(results, toFlightListResponse(&items[i]))
	}
	paginated(c, total, results)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	crew := make([]crewResponse, 0, len(detail.Crew))
	for i := range detail.Crew {
		crew = append(crew, toCrewResponse(&detail.Crew[i]))
	}
	c.JSON(http.StatusOK, flightDetailResponse{
		ID:            detail.ID,
		Route:         toRouteDetailResponse(&detail.Route),
		Airplane:      toAirplaneResponse(&detail.Airplane),
		DepartureTime: detail.DepartureTime,
		ArrivalTime:   detail.ArrivalTime,
		TakenSeats:    detail.TakenSeats,
		Crew:          crew,
	})
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flight := &domain.Flight{
		RouteID:       req.Route,
		AirplaneID:    req.Airplane,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.Crew,
	}
	if err := h.service.Create(c.Request.Context(), flight); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": flight.ID})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flight := &domain.Flight{
		ID:            id,
		RouteID:       req.Route,
		AirplaneID:    req.Airplane,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.Crew,
	}
	if err := h.service.Update(c.Request.Context(), flight); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": flight.ID})
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
