package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/repository"
)

// PassengerHandler manages the organization's saved-passenger directory.
type PassengerHandler struct {
	repo  repository.SavedPassengerRepository
	now   func() time.Time
	newID func() string
}

func NewPassengerHandler(repo repository.SavedPassengerRepository) *PassengerHandler {
	return &PassengerHandler{repo: repo, now: time.Now, newID: uuid.NewString}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.POST("/bulk", h.createBulk)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

func (h *PassengerHandler) list(c *gin.Context) {
	passengers, err := h.repo.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passengers": passengers})
}

func (h *PassengerHandler) get(c *gin.Context) {
	p, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PassengerHandler) create(c *gin.Context) {
	var form domain.PassengerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := h.fromForm(form)
	if err := h.repo.Create(c.Request.Context(), &p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type bulkCreateRequest struct {
	Passengers []domain.PassengerForm `json:"passengers" binding:"required"`
}

// createBulk saves the passenger forms offered after submission in one
// call.
func (h *PassengerHandler) createBulk(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := make([]domain.SavedPassenger, 0, len(req.Passengers))
	for _, form := range req.Passengers {
		p := h.fromForm(form)
		if err := h.repo.Create(c.Request.Context(), &p); err != nil {
			writeError(c, err)
			return
		}
		created = append(created, p)
	}
	c.JSON(http.StatusCreated, gin.H{"passengers": created})
}

func (h *PassengerHandler) update(c *gin.Context) {
	var form domain.PassengerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	updated := domain.SavedPassengerFromForm(form)
	updated.ID = existing.ID
	updated.OrganizationID = existing.OrganizationID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = h.now()

	if err := h.repo.Update(c.Request.Context(), &updated); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PassengerHandler) remove(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PassengerHandler) fromForm(form domain.PassengerForm) domain.SavedPassenger {
	p := domain.SavedPassengerFromForm(form)
	p.ID = h.newID()
	now := h.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p
}
