package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
	"github.com/joeystdio/handoff-app/internal/modules/tracking"
)

// eventRecorder is the tracking surface the portal handlers need.
// Satisfied by *tracking.Recorder.
type eventRecorder interface {
	View(clientID uuid.UUID, page string, projectID *uuid.UUID)
	Download(fileID, clientID uuid.UUID, ip string)
}

var _ eventRecorder = (*tracking.Recorder)(nil)

// ClientPortalHandler serves the token-authenticated client surface. Every
// error here reads as 404 so foreign ids cannot be probed, and reads are
// tracked through the recorder.
type ClientPortalHandler struct {
	projects service.ProjectService
	tasks    service.TaskService
	updates  service.UpdateService
	files    service.FileService
	recorder eventRecorder
}

func NewClientPortalHandler(
	projects service.ProjectService,
	tasks service.TaskService,
	updates service.UpdateService,
	files service.FileService,
	recorder eventRecorder,
) *ClientPortalHandler {
	return &ClientPortalHandler{
		projects: projects,
		tasks:    tasks,
		updates:  updates,
		files:    files,
		recorder: recorder,
	}
}

// PortalProjects godoc
//
//	@Summary		List the calling client's projects
//	@Description	Records one page view per call.
//	@Tags			client-portal
//	@Produce		json
//	@Param			token	query	string	false	"Client access token"
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/portal/projects [get]
func (h *ClientPortalHandler) PortalProjects(c *gin.Context) {
	client := middleware.Client(c)

	projects, err := h.projects.ListForClient(c.Request.Context(), client.ID)
	if err != nil {
		respondClientErr(c, err)
		return
	}

	h.recorder.View(client.ID, model.PageProjects, nil)

	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}

// ProjectDetail bundles everything the portal shows on one project page.
type ProjectDetail struct {
	Project *model.Project           `json:"project"`
	Tasks   []model.Task             `json:"tasks"`
	Updates []model.UpdateWithAuthor `json:"updates"`
	Files   []model.File             `json:"files"`
}

// PortalProject godoc
//
//	@Summary		One project with its tasks, updates and files
//	@Description	Records one page view per call.
//	@Tags			client-portal
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			token		query	string	false	"Client access token"
//	@Success		200	{object}	serializer.Response{data=ProjectDetail}
//	@Failure		404	{object}	serializer.Response
//	@Router			/portal/projects/{project_id} [get]
func (h *ClientPortalHandler) PortalProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(""))
		return
	}

	client := middleware.Client(c)
	ctx := c.Request.Context()

	project, err := h.projects.GetForClient(ctx, client.ID, projectID)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	tasks, err := h.tasks.ListForClient(ctx, client.ID, projectID)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	updates, err := h.updates.ListForClient(ctx, client.ID, projectID)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	files, err := h.files.ListForClient(ctx, client.ID, projectID)
	if err != nil {
		respondClientErr(c, err)
		return
	}

	h.recorder.View(client.ID, model.PageProject, &project.ID)

	c.JSON(http.StatusOK, serializer.Response{Data: ProjectDetail{
		Project: project,
		Tasks:   tasks,
		Updates: updates,
		Files:   files,
	}})
}

type PortalReplyReq struct {
	Content string `json:"content" binding:"required"`
}

// PortalReply godoc
//
//	@Summary	Post a reply on a project as the client
//	@Tags		client-portal
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string			true	"Project ID"	format(uuid)
//	@Param		body		body		PortalReplyReq	true	"Reply"
//	@Success	201	{object}	serializer.Response{data=model.Update}
//	@Failure	404	{object}	serializer.Response
//	@Router		/portal/projects/{project_id}/updates [post]
func (h *ClientPortalHandler) PortalReply(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(""))
		return
	}
	req := PortalReplyReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	client := middleware.Client(c)

	u, err := h.updates.CreateByClient(c.Request.Context(), client.ID, projectID, req.Content)
	if err != nil {
		respondClientErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: u})
}

// PortalDownload godoc
//
//	@Summary		Download a file as the client
//	@Description	The download event is recorded before the first byte is streamed, so an interrupted transfer still counts.
//	@Tags			client-portal
//	@Produce		octet-stream
//	@Param			file_id	path	string	true	"File ID"	format(uuid)
//	@Param			token	query	string	false	"Client access token"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	serializer.Response
//	@Router			/portal/files/{file_id}/download [get]
func (h *ClientPortalHandler) PortalDownload(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(""))
		return
	}

	client := middleware.Client(c)

	f, body, err := h.files.DownloadForClient(c.Request.Context(), client.ID, fileID)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	defer body.Close()

	h.recorder.Download(f.ID, client.ID, c.ClientIP())

	streamFile(c, f.Name, f.MimeType, f.Size, body)
}
