package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/service/flow"
)

type DraftHandler struct {
	service flow.UseCase
}

func NewDraftHandler(service flow.UseCase) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	router.Use(RequireClientID())

	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/activate", h.activate)
	router.DELETE("/:id", h.remove)

	router.GET("/:id/legs/:index/offers", h.searchLeg)
	router.POST("/:id/flight", h.selectFlight)
	router.POST("/:id/legs", h.selectLegFlights)
	router.DELETE("/:id/flight", h.clearFlight)

	router.POST("/:id/passengers", h.addPassenger)
	router.PUT("/:id/passengers/:passengerId", h.updatePassenger)
	router.DELETE("/:id/passengers/:passengerId", h.removePassenger)

	router.POST("/:id/submit", h.submit)
	router.GET("/:id/confirmation", h.confirmation)
}

func (h *DraftHandler) create(c *gin.Context) {
	d, err := h.service.CreateDraft(c.Request.Context(), clientID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type draftListResponse struct {
	Bookings        []domain.DraftBooking `json:"bookings"`
	ActiveBookingID string                `json:"activeBookingId"`
}

func (h *DraftHandler) list(c *gin.Context) {
	state, err := h.service.Drafts(c.Request.Context(), clientID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draftListResponse{
		Bookings:        state.Bookings,
		ActiveBookingID: state.ActiveBookingID,
	})
}

func (h *DraftHandler) get(c *gin.Context) {
	d, err := h.service.GetDraft(c.Request.Context(), clientID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) activate(c *gin.Context) {
	if err := h.service.ActivateDraft(c.Request.Context(), clientID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) remove(c *gin.Context) {
	if err := h.service.RemoveDraft(c.Request.Context(), clientID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) searchLeg(c *gin.Context) {
	var params struct {
		ID    string `uri:"id"`
		Index int    `uri:"index"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offers, err := h.service.SearchLeg(c.Request.Context(), clientID(c), params.ID, params.Index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *DraftHandler) selectFlight(c *gin.Context) {
	var offer domain.FlightOffer
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SelectOffer(c.Request.Context(), clientID(c), c.Param("id"), offer); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type selectLegsRequest struct {
	Offers []domain.FlightOffer `json:"offers"`
}

func (h *DraftHandler) selectLegFlights(c *gin.Context) {
	var req selectLegsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	combined, err := h.service.SelectLegOffers(c.Request.Context(), clientID(c), c.Param("id"), req.Offers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, combined)
}

func (h *DraftHandler) clearFlight(c *gin.Context) {
	if err := h.service.ClearOffer(c.Request.Context(), clientID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addPassengerRequest struct {
	SavedPassengerID string                `json:"savedPassengerId"`
	Form             *domain.PassengerForm `json:"data"`
}

func (h *DraftHandler) addPassenger(c *gin.Context) {
	var req addPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		p   domain.DraftPassenger
		err error
	)
	if req.SavedPassengerID != "" {
		p, err = h.service.AddSavedPassenger(c.Request.Context(), clientID(c), c.Param("id"), req.SavedPassengerID)
	} else {
		form := domain.PassengerForm{}
		if req.Form != nil {
			form = *req.Form
		}
		p, err = h.service.AddPassenger(c.Request.Context(), clientID(c), c.Param("id"), form)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *DraftHandler) updatePassenger(c *gin.Context) {
	var form domain.PassengerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.UpdatePassenger(c.Request.Context(), clientID(c), c.Param("id"), c.Param("passengerId"), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) removePassenger(c *gin.Context) {
	err := h.service.RemovePassenger(c.Request.Context(), clientID(c), c.Param("id"), c.Param("passengerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) submit(c *gin.Context) {
	// discount code and special requests are optional; an empty body is a
	// plain submit
	var input flow.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Submit(c.Request.Context(), clientID(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *DraftHandler) confirmation(c *gin.Context) {
	view, err := h.service.Confirmation(c.Request.Context(), clientID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
