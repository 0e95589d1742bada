package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/service/orders"
)

type OrderHandler struct {
	service   orders.OrderUseCase
	paginator Paginator
}

type ticketSpecRequest struct {
	Flight int64 `json:"flight" binding:"required"`
	Row    int   `json:"row" binding:"required"`
	Seat   int   `json:"seat" binding:"required"`
}

type createOrderRequest struct {
	Tickets []ticketSpecRequest `json:"tickets"`
}

type ticketResponse struct {
	ID     int64               `json:"id"`
	Row    int                 `json:"row"`
	Seat   int                 `json:"seat"`
	Flight *flightListResponse `json:"flight,omitempty"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []ticketResponse `json:"tickets"`
}

func NewOrderHandler(service orders.OrderUseCase, paginator Paginator) *OrderHandler {
	return &OrderHandler{service: service, paginator: paginator}
}

// Register mounts the order routes. Everything here requires a logged-in
// user; orders are only ever visible to their owner.
func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("", RequireAuth(), h.create)
	router.GET("", RequireAuth(), h.list)
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Tickets:   make([]ticketResponse, 0, len(order.Tickets)),
	}
	for i := range order.Tickets {
		t := &order.Tickets[i]
		ticket := ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat}
		if t.Flight != nil {
			flight := toFlightListResponse(t.Flight)
			ticket.Flight = &flight
		}
		resp.Tickets = append(resp.Tickets, ticket)
	}
	return resp
}

func (h *OrderHandler) create(c *gin.Context) {
	identity, _ := identityFrom(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	specs := make([]domain.TicketSpec, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		specs = append(specs, domain.TicketSpec{FlightID: t.Flight, Row: t.Row, Seat: t.Seat})
	}

	order, err := h.service.Create(c.Request.Context(), identity.UserID, specs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) list(c *gin.Context) {
	identity, _ := identityFrom(c)

	limit, offset := h.paginator.Limits(c)
	items, total, err := h.service.ListByUser(c.Request.Context(), identity.UserID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]orderResponse, 0, len(items))
	for i := range items {
		results = append(results, toOrderResponse(&items[i]))
	}
	paginated(c, total, results)
}
