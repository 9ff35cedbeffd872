package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/middleware"
	"crowdfund/internal/service"
)

type FundraiserHandler struct {
	fundraiserService *service.FundraiserService
}

func NewFundraiserHandler(fundraiserService *service.FundraiserService) *FundraiserHandler {
	return &FundraiserHandler{fundraiserService: fundraiserService}
}

func (h *FundraiserHandler) ListFundraisers(c *gin.Context) {
	fundraisers, err := h.fundraiserService.ListFundraisers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fundraisers)
}

// MyFundraisers lists the fundraisers owned by the caller.
func (h *FundraiserHandler) MyFundraisers(c *gin.Context) {
	fundraisers, err := h.fundraiserService.ListByOwner(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fundraisers)
}

// CreateFundraiser handles POST /fundraisers/. The owner is the caller; an
// owner field in the body is ignored.
func (h *FundraiserHandler) CreateFundraiser(c *gin.Context) {
	var input service.FundraiserInput
	if !bindJSON(c, &input) {
		return
	}

	// Owner is taken from the token, never from the body
	fundraiser, err := h.fundraiserService.CreateFundraiser(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fundraiser)
}

// GetFundraiser renders the fundraiser with its pledges as the caller may
// see them.
func (h *FundraiserHandler) GetFundraiser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fundraiser, err := h.fundraiserService.GetFundraiser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Hidden comments are blanked unless the caller is the owner or supporter
	c.JSON(http.StatusOK, fundraiser.DetailFor(middleware.CurrentUserID(c)))
}

// UpdateFundraiser handles PUT /fundraisers/:id/ as a partial update.
func (h *FundraiserHandler) UpdateFundraiser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Permission comes before the body: a non-owner gets 403 whatever they sent.
	viewer := middleware.CurrentUserID(c)
	if err := h.fundraiserService.AuthorizeWrite(c.Request.Context(), viewer, id, c.Request.Method); err != nil {
		respondError(c, err)
		return
	}

	var patch service.FundraiserPatch
	if !bindJSON(c, &patch) {
		return
	}

	fundraiser, err := h.fundraiserService.UpdateFundraiser(c.Request.Context(), viewer, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fundraiser.DetailFor(viewer))
}

func (h *FundraiserHandler) DeleteFundraiser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fundraiserService.DeleteFundraiser(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
