package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/service/flights"
	"github.com/viyahe/corptravel/internal/service/flow"
)

type FlightHandler struct {
	service flow.UseCase
}

func NewFlightHandler(service flow.UseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/search", RequireClientID(), h.search)
	router.GET("/airports", h.airports)
}

type searchResponse struct {
	Draft  domain.DraftBooking  `json:"draft"`
	Offers []domain.FlightOffer `json:"offers"`
}

// search runs a flight search against the client's active draft, creating
// one when none exists. Filter and sort options apply to the returned page
// only; the draft stores the raw search params.
func (h *FlightHandler) search(c *gin.Context) {
	var params domain.FlightSearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, offers, err := h.service.StartSearch(c.Request.Context(), clientID(c), params)
	if err != nil {
		writeError(c, err)
		return
	}

	offers = flights.Filter(offers, filtersFromQuery(c))
	if sortOpt := c.Query("sort"); sortOpt != "" {
		offers = flights.Sort(offers, flights.SortOption(sortOpt))
	}

	c.JSON(http.StatusOK, searchResponse{Draft: d, Offers: offers})
}

func filtersFromQuery(c *gin.Context) flights.Filters {
	f := flights.Filters{MaxStops: -1}
	if v, err := strconv.ParseInt(c.Query("maxPrice"), 10, 64); err == nil {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(c.Query("maxStops")); err == nil {
		f.MaxStops = v
	}
	if v, err := strconv.Atoi(c.Query("maxDuration")); err == nil {
		f.MaxDuration = v
	}
	if airlines, ok := c.GetQueryArray("airline"); ok {
		f.Airlines = airlines
	}
	return f
}

func (h *FlightHandler) airports(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"airports": flights.Airports})
		return
	}
	c.JSON(http.StatusOK, gin.H{"airports": flights.SearchAirports(query)})
}
