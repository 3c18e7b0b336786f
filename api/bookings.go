package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/service/booking"
)

// BookingHandler serves the agent console: listing incoming requests,
// moving them through the status machine and managing documents.
type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PATCH("/:id/status", h.updateStatus)
	router.POST("/:id/documents", h.addDocument)
	router.DELETE("/:id/documents/:docId", h.removeDocument)
}

func (h *BookingHandler) list(c *gin.Context) {
	status := domain.BookingStatus(c.Query("status"))
	bookings, err := h.service.ListBookings(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type updateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	AgentNotes      string `json:"agentNotes"`
	RejectionReason string `json:"rejectionReason"`
	AgentID         string `json:"agentId"`
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status), booking.StatusUpdateOptions{
		AgentNotes:      req.AgentNotes,
		RejectionReason: req.RejectionReason,
		AgentID:         req.AgentID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type addDocumentRequest struct {
	Type       string `json:"type" binding:"required"`
	FileName   string `json:"fileName" binding:"required"`
	FileSize   int64  `json:"fileSize"`
	MIMEType   string `json:"mimeType"`
	DataURL    string `json:"dataUrl" binding:"required"`
	UploadedBy string `json:"uploadedBy"`
}

func (h *BookingHandler) addDocument(c *gin.Context) {
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.AddDocument(c.Request.Context(), c.Param("id"), booking.DocumentInput{
		Type:       domain.DocumentType(req.Type),
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		MIMEType:   req.MIMEType,
		DataURL:    req.DataURL,
		UploadedBy: req.UploadedBy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *BookingHandler) removeDocument(c *gin.Context) {
	removed, err := h.service.RemoveDocument(c.Request.Context(), c.Param("id"), c.Param("docId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
