package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type ClientHandler struct {
	svc service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{svc: s}
}

type CreateClientReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CreateClient godoc
//
//	@Summary		Invite a client to a portal
//	@Description	Creates the client and returns the opaque access token and magic link exactly once.
//	@Tags			client
//	@Accept			json
//	@Produce		json
//	@Param			portal_id	path		string			true	"Portal ID"	format(uuid)
//	@Param			body		body		CreateClientReq	true	"Client"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.CreateClientOutput}
//	@Failure		409	{object}	serializer.Response
//	@Router			/portals/{portal_id}/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	portalID, err := uuid.Parse(c.Param("portal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid portal_id", err))
		return
	}
	req := CreateClientReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	out, err := h.svc.Create(c.Request.Context(), principal.ID, portalID, service.CreateClientInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ListClients godoc
//
//	@Summary	List a portal's clients
//	@Tags		client
//	@Produce	json
//	@Param		portal_id	path	string	true	"Portal ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Client}
//	@Router		/portals/{portal_id}/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	portalID, err := uuid.Parse(c.Param("portal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid portal_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	clients, err := h.svc.List(c.Request.Context(), principal.ID, portalID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: clients})
}

type ActivityReq struct {
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=200"`
	ViewCursor     string `form:"view_cursor"`
	DownloadCursor string `form:"download_cursor"`
}

// ClientActivity godoc
//
//	@Summary		Client view and download history
//	@Description	Cursor-paged, newest first. Pass the returned cursors back to fetch older entries.
//	@Tags			client
//	@Produce		json
//	@Param			client_id		path	string	true	"Client ID"	format(uuid)
//	@Param			limit			query	int		false	"Page size"	default(50)
//	@Param			view_cursor		query	string	false	"Opaque view cursor"
//	@Param			download_cursor	query	string	false	"Opaque download cursor"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ActivityOutput}
//	@Router			/clients/{client_id}/activity [get]
func (h *ClientHandler) ClientActivity(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid client_id", err))
		return
	}
	req := ActivityReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	out, err := h.svc.Activity(c.Request.Context(), principal.ID, clientID, service.ActivityInput{
		Limit:          req.Limit,
		ViewCursor:     req.ViewCursor,
		DownloadCursor: req.DownloadCursor,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
