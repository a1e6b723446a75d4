package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// CreateProject godoc
//
//	@Summary	Create a project for a client
//	@Tags		project
//	@Accept		json
//	@Produce	json
//	@Param		client_id	path		string				true	"Client ID"	format(uuid)
//	@Param		body		body		CreateProjectReq	true	"Project"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response{data=model.Project}
//	@Router		/clients/{client_id}/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid client_id", err))
		return
	}
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	p, err := h.svc.Create(c.Request.Context(), principal.ID, clientID, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: p})
}

// ListProjects godoc
//
//	@Summary	List a client's projects
//	@Tags		project
//	@Produce	json
//	@Param		client_id	path	string	true	"Client ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Project}
//	@Router		/clients/{client_id}/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid client_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	projects, err := h.svc.List(c.Request.Context(), principal.ID, clientID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}

// GetProject godoc
//
//	@Summary	Fetch one project
//	@Tags		project
//	@Produce	json
//	@Param		project_id	path	string	true	"Project ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=model.Project}
//	@Failure	404	{object}	serializer.Response
//	@Router		/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	p, err := h.svc.Get(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: p})
}
