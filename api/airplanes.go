package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/service/airplanes"
)

type AirplaneHandler struct {
	service airplanes.AirplaneUseCase
}

type airplaneRequest struct {
	Name         string `json:"name" binding:"required"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType *int64 `json:"airplane_type"`
	AirCompany   *int64 `json:"air_company"`
}

type airplaneResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	NumSeats     int    `json:"num_seats"`
	AirplaneType string `json:"airplane_type"`
	AirCompany   string `json:"air_company"`
}

func NewAirplaneHandler(service airplanes.AirplaneUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	router.DELETE("/:id", admin, h.delete)
}

func toAirplaneResponse(airplane *domain.Airplane) airplaneResponse {
	return airplaneResponse{
		ID:           airplane.ID,
		Name:         airplane.Name,
		Rows:         airplane.Rows,
		SeatsInRow:   airplane.SeatsInRow,
		NumSeats:     airplane.Capacity(),
		AirplaneType: airplane.TypeName,
		AirCompany:   airplane.CompanyName,
	}
}

func (h *AirplaneHandler) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	results := make([]airplaneResponse, 0, len(items))
	for i := range items {
		results = append(results, toAirplaneResponse(&items[i]))
	}
	paginated(c, len(results), results)
}

func (h *AirplaneHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	airplane, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirplaneResponse(airplane))
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req airplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	airplane := &domain.Airplane{
		Name:           req.Name,
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneType,
		AirCompanyID:   req.AirCompany,
	}
	if err := h.service.Create(c.Request.Context(), airplane); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirplaneResponse(airplane))
}

func (h *AirplaneHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	airplane := &domain.Airplane{
		ID:             id,
		Name:           req.Name,
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneType,
		AirCompanyID:   req.AirCompany,
	}
	if err := h.service.Update(c.Request.Context(), airplane); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirplaneResponse(airplane))
}

func (h *AirplaneHandler) delete(c *gin.Context) {
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
