package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type PortalHandler struct {
	svc service.PortalService
}

func NewPortalHandler(s service.PortalService) *PortalHandler {
	return &PortalHandler{svc: s}
}

type CreatePortalReq struct {
	Subdomain   string `json:"subdomain" binding:"required,subdomain"`
	Name        string `json:"name" binding:"required"`
	LogoURL     string `json:"logo_url" binding:"omitempty,url"`
	AccentColor string `json:"accent_color" binding:"omitempty,hexcolor"`
}

// CreatePortal godoc
//
//	@Summary	Create a portal
//	@Tags		portal
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreatePortalReq	true	"Portal"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response{data=model.Portal}
//	@Failure	409	{object}	serializer.Response
//	@Router		/portals [post]
func (h *PortalHandler) CreatePortal(c *gin.Context) {
	req := CreatePortalReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	p, err := h.svc.Create(c.Request.Context(), principal.ID, service.CreatePortalInput{
		Subdomain:   req.Subdomain,
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		AccentColor: req.AccentColor,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: p})
}

// ListPortals godoc
//
//	@Summary	List the caller's portals
//	@Tags		portal
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Portal}
//	@Router		/portals [get]
func (h *PortalHandler) ListPortals(c *gin.Context) {
	principal := middleware.Freelancer(c)

	portals, err := h.svc.List(c.Request.Context(), principal.ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: portals})
}

// DeletePortal godoc
//
//	@Summary		Delete a portal
//	@Description	Deletes the portal and, through schema cascades, all its clients, projects, tasks, updates, files and tracking logs.
//	@Tags			portal
//	@Produce		json
//	@Param			portal_id	path	string	true	"Portal ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/portals/{portal_id} [delete]
func (h *PortalHandler) DeletePortal(c *gin.Context) {
	portalID, err := uuid.Parse(c.Param("portal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid portal_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	if err := h.svc.Delete(c.Request.Context(), principal.ID, portalID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// LookupSubdomain godoc
//
//	@Summary		Public portal lookup
//	@Description	Resolves a subdomain to the portal's public name and branding. No authentication.
//	@Tags			portal
//	@Produce		json
//	@Param			subdomain	path	string	true	"Subdomain"
//	@Success		200	{object}	serializer.Response{data=service.PublicPortal}
//	@Failure		404	{object}	serializer.Response
//	@Router			/lookup/{subdomain} [get]
func (h *PortalHandler) LookupSubdomain(c *gin.Context) {
	pub, err := h.svc.GetBySubdomain(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: pub})
}
