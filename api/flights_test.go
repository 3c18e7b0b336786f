package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/viyahe/corptravel/internal/domain"
)

func newFlightRouter(service *MockFlowUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(service).Register(router.Group("/api/flights"))
	return router
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlowUseCase{}
	router := newFlightRouter(mockService)

	params := domain.FlightSearchParams{
		TripType:      domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-09-01",
		Passengers:    1,
		CabinClass:    domain.CabinEconomy,
	}
	d := domain.DraftBooking{ID: "d1", Status: domain.DraftStatusSelecting}
	offers := []domain.FlightOffer{
		{ID: "o1", PriceWithMarkup: domain.Price{Amount: 20000, Currency: "USD"}},
		{ID: "o2", PriceWithMarkup: domain.Price{Amount: 10000, Currency: "USD"}},
	}
	mockService.On("StartSearch", mock.Anything, "client1", params).Return(d, offers, nil)

	body, _ := json.Marshal(params)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/flights/search?sort=price_low", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ClientIDHeader, "client1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "d1", resp.Draft.ID)
	assert.Equal(t, "o2", resp.Offers[0].ID, "sort option applies to the response")
}

func TestFlightHandler_searchRequiresClientID(t *testing.T) {
	mockService := &MockFlowUseCase{}
	router := newFlightRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/flights/search", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "StartSearch")
}

func TestFlightHandler_airports(t *testing.T) {
	router := newFlightRouter(&MockFlowUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/airports?q=tokyo", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Airports []domain.Airport `json:"airports"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Airports, 2)
}
