package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type UpdateHandler struct {
	svc service.UpdateService
}

func NewUpdateHandler(s service.UpdateService) *UpdateHandler {
	return &UpdateHandler{svc: s}
}

type CreateUpdateReq struct {
	Content string `json:"content" binding:"required"`
}

// CreateUpdate godoc
//
//	@Summary	Post a progress update on a project
//	@Tags		update
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string			true	"Project ID"	format(uuid)
//	@Param		body		body		CreateUpdateReq	true	"Update"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response{data=model.Update}
//	@Router		/projects/{project_id}/updates [post]
func (h *UpdateHandler) CreateUpdate(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := CreateUpdateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	u, err := h.svc.CreateByFreelancer(c.Request.Context(), principal.ID, projectID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: u})
}

// ListUpdates godoc
//
//	@Summary		List a project's updates
//	@Description	Newest first, with the author's display name resolved for both freelancer and client authors.
//	@Tags			update
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.UpdateWithAuthor}
//	@Router			/projects/{project_id}/updates [get]
func (h *UpdateHandler) ListUpdates(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	updates, err := h.svc.List(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: updates})
}
