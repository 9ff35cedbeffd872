package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/middleware"
	"crowdfund/internal/models"
	"crowdfund/internal/service"
)

type PledgeHandler struct {
	pledgeService *service.PledgeService
}

func NewPledgeHandler(pledgeService *service.PledgeService) *PledgeHandler {
	return &PledgeHandler{pledgeService: pledgeService}
}

// visible filters each pledge's comment for the viewer. Pledges must have
// their fundraiser loaded.
func visible(pledges []models.Pledge, viewerID uint) []models.Pledge {
	out := make([]models.Pledge, 0, len(pledges))
	for _, p := range pledges {
		out = append(out, p.VisibleTo(viewerID, p.Fundraiser.OwnerID))
	}
	return out
}

func (h *PledgeHandler) ListPledges(c *gin.Context) {
	pledges, err := h.pledgeService.ListPledges(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, visible(pledges, middleware.CurrentUserID(c)))
}

// MyPledges lists the pledges made by the caller.
func (h *PledgeHandler) MyPledges(c *gin.Context) {
	viewer := middleware.CurrentUserID(c)
	pledges, err := h.pledgeService.ListBySupporter(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, visible(pledges, viewer))
}

// CreatePledge handles POST /pledges/. The supporter is the caller.
func (h *PledgeHandler) CreatePledge(c *gin.Context) {
	var input service.PledgeInput
	if !bindJSON(c, &input) {
		return
	}

	pledge, err := h.pledgeService.CreatePledge(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pledge)
}

func (h *PledgeHandler) GetPledge(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	pledge, err := h.pledgeService.GetPledge(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pledge.VisibleTo(middleware.CurrentUserID(c), pledge.Fundraiser.OwnerID))
}

// UpdatePledge handles PUT /pledges/:id/: the supporter edits comment and
// anonymity.
func (h *PledgeHandler) UpdatePledge(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Only the supporter gets as far as body decoding.
	viewer := middleware.CurrentUserID(c)
	if err := h.pledgeService.AuthorizeEdit(c.Request.Context(), viewer, id); err != nil {
		respondError(c, err)
		return
	}

	var patch service.PledgePatch
	if !bindJSON(c, &patch) {
		return
	}

	pledge, err := h.pledgeService.UpdatePledge(c.Request.Context(), viewer, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pledge)
}

// ModeratePledge handles PATCH /pledges/:id/: the fundraiser owner hides or
// reveals the comment.
func (h *PledgeHandler) ModeratePledge(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	input := service.ModerationInput{}
	if !bindJSON(c, &input) {
		return
	}

	pledge, err := h.pledgeService.SetHidden(c.Request.Context(), middleware.CurrentUserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pledge)
}

// ClearComment handles DELETE /pledges/:id/. Only the comment is removed.
func (h *PledgeHandler) ClearComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.pledgeService.ClearComment(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
