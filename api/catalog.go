package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/repository"
)

// NamedHandler serves a flat lookup table: countries, airplane types and
// air companies all share it.
type NamedHandler struct {
	repo       repository.NamedRepository
	withDelete bool
}

type namedRequest struct {
	Name string `json:"name" binding:"required"`
}

func NewNamedHandler(repo repository.NamedRepository, withDelete bool) *NamedHandler {
	return &NamedHandler{repo: repo, withDelete: withDelete}
}

func (h *NamedHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	if h.withDelete {
		router.DELETE("/:id", admin, h.delete)
	}
}

func (h *NamedHandler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	paginated(c, len(items), items)
}

func (h *NamedHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *NamedHandler) create(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.repo.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *NamedHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.repo.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *NamedHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CityHandler struct {
	repo repository.CityRepository
}

type cityRequest struct {
	Name    string `json:"name" binding:"required"`
	Country *int64 `json:"country"`
}

type cityResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func NewCityHandler(repo repository.CityRepository) *CityHandler {
	return &CityHandler{repo: repo}
}

func (h *CityHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
}

func toCityResponse(city *domain.City) cityResponse {
	return cityResponse{ID: city.ID, Name: city.Name, Country: city.CountryName}
}

func (h *CityHandler) list(c *gin.Context) {
	cities, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	results := make([]cityResponse, 0, len(cities))
	for i := range cities {
		results = append(results, toCityResponse(&cities[i]))
	}
	paginated(c, len(results), results)
}

func (h *CityHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	city, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCityResponse(city))
}

func (h *CityHandler) create(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city := &domain.City{Name: req.Name, CountryID: req.Country}
	if err := h.repo.Create(c.Request.Context(), city); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCityResponse(city))
}

func (h *CityHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city := &domain.City{ID: id, Name: req.Name, CountryID: req.Country}
	if err := h.repo.Update(c.Request.Context(), city); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCityResponse(city))
}

type CrewHandler struct {
	repo repository.CrewRepository
}

type crewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func NewCrewHandler(repo repository.CrewRepository) *CrewHandler {
	return &CrewHandler{repo: repo}
}

func (h *CrewHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	router.DELETE("/:id", admin, h.delete)
}

func toCrewResponse(crew *domain.Crew) crewResponse {
	return crewResponse{
		ID:        crew.ID,
		FirstName: crew.FirstName,
		LastName:  crew.LastName,
		FullName:  crew.FullName(),
	}
}

func (h *CrewHandler) list(c *gin.Context) {
	crews, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	results := make([]crewResponse, 0, len(crews))
	for i := range crews {
		results = append(results, toCrewResponse(&crews[i]))
	}
	paginated(c, len(results), results)
}

func (h *CrewHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	crew, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCrewResponse(crew))
}

func (h *CrewHandler) create(c *gin.Context) {
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	crew := &domain.Crew{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.repo.Create(c.Request.Context(), crew); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCrewResponse(crew))
}

func (h *CrewHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	crew := &domain.Crew{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.repo.Update(c.Request.Context(), crew); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCrewResponse(crew))
}

func (h *CrewHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CatalogUseCase is the airport and route surface of the catalog service.
type CatalogUseCase interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	CreateAirport(ctx context.Context, airport *domain.Airport) error
	UpdateAirport(ctx context.Context, airport *domain.Airport) error
	DeleteAirport(ctx context.Context, id int64) error
	UploadAirportImage(ctx context.Context, id int64, filename, contentType string, src io.Reader) (*domain.Airport, error)

	ListRoutes(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error)
	CreateRoute(ctx context.Context, route *domain.Route) error
	UpdateRoute(ctx context.Context, route *domain.Route) error
	DeleteRoute(ctx context.Context, id int64) error
}

type AirportHandler struct {
	service CatalogUseCase
}

type airportRequest struct {
	Name           string `json:"name" binding:"required"`
	ClosestBigCity *int64 `json:"closest_big_city"`
}

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
	Image          string `json:"image,omitempty"`
}

func NewAirportHandler(service CatalogUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	router.DELETE("/:id", admin, h.delete)
	router.POST("/:id/upload-image", admin, h.uploadImage)
}

func toAirportResponse(airport *domain.Airport) airportResponse {
	return airportResponse{
		ID:             airport.ID,
		Name:           airport.Name,
		ClosestBigCity: airport.CityName,
		Image:          airport.ImagePath,
	}
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	results := make([]airportResponse, 0, len(airports))
	for i := range airports {
		results = append(results, toAirportResponse(&airports[i]))
	}
	paginated(c, len(results), results)
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	airport, err := h.service.GetAirport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirportResponse(airport))
}

func (h *AirportHandler) create(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	airport := &domain.Airport{Name: req.Name, CityID: req.ClosestBigCity}
	if err := h.service.CreateAirport(c.Request.Context(), airport); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirportResponse(airport))
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	airport := &domain.Airport{ID: id, Name: req.Name, CityID: req.ClosestBigCity}
	if err := h.service.UpdateAirport(c.Request.Context(), airport); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirportResponse(airport))
}

func (h *AirportHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAirport(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AirportHandler) uploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "no image file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer src.Close()

	airport, err := h.service.UploadAirportImage(
		c.Request.Context(), id, file.Filename, file.Header.Get("Content-Type"), src,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirportResponse(airport))
}

type RouteHandler struct {
	service CatalogUseCase
}

type routeRequest struct {
	Source      *int64 `json:"source" binding:"required"`
	Destination *int64 `json:"destination" binding:"required"`
	Distance    int    `json:"distance"`
}

type routeResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

// routeWriteResponse echoes the submitted ids; the write path never loads
// airport names.
type routeWriteResponse struct {
	ID          int64  `json:"id"`
	Source      *int64 `json:"source"`
	Destination *int64 `json:"destination"`
	Distance    int    `json:"distance"`
}

type routeDetailResponse struct {
	ID          int64            `json:"id"`
	Source      *airportResponse `json:"source"`
	Destination *airportResponse `json:"destination"`
	Distance    int              `json:"distance"`
}

func NewRouteHandler(service CatalogUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", admin, h.create)
	router.PUT("/:id", admin, h.update)
	router.DELETE("/:id", admin, h.delete)
}

func toRouteResponse(route *domain.Route) routeResponse {
	return routeResponse{
		ID:          route.ID,
		Source:      route.SourceName,
		Destination: route.DestinationName,
		Distance:    route.Distance,
	}
}

func toRouteWriteResponse(route *domain.Route) routeWriteResponse {
	return routeWriteResponse{
		ID:          route.ID,
		Source:      route.SourceID,
		Destination: route.DestinationID,
		Distance:    route.Distance,
	}
}

func toRouteDetailResponse(detail *domain.RouteDetail) routeDetailResponse {
	resp := routeDetailResponse{ID: detail.ID, Distance: detail.Distance}
	if detail.Source != nil {
		src := toAirportResponse(detail.Source)
		resp.Source = &src
	}
	if detail.Destination != nil {
		dst := toAirportResponse(detail.Destination)
		resp.Destination = &dst
	}
	return resp
}

func (h *RouteHandler) list(c *gin.Context) {
	filter := domain.RouteFilter{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}
	routes, err := h.service.ListRoutes(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	results := make([]routeResponse, 0, len(routes))
	for i := range routes {
		results = append(results, toRouteResponse(&routes[i]))
	}
	paginated(c, len(results), results)
}

func (h *RouteHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteDetailResponse(detail))
}

func (h *RouteHandler) create(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route := &domain.Route{SourceID: req.Source, DestinationID: req.Destination, Distance: req.Distance}
	if err := h.service.CreateRoute(c.Request.Context(), route); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRouteWriteResponse(route))
}

func (h *RouteHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route := &domain.Route{ID: id, SourceID: req.Source, DestinationID: req.Destination, Distance: req.Distance}
	if err := h.service.UpdateRoute(c.Request.Context(), route); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteWriteResponse(route))
}

func (h *RouteHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRoute(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
