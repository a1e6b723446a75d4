package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type FileHandler struct {
	svc service.FileService
}

func NewFileHandler(s service.FileService) *FileHandler {
	return &FileHandler{svc: s}
}

// UploadFile godoc
//
//	@Summary	Upload a file to a project
//	@Tags		file
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		project_id	path		string	true	"Project ID"	format(uuid)
//	@Param		file		formData	file	true	"File content"
//	@Param		update_id	formData	string	false	"Attach to an update"	format(uuid)
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response{data=model.File}
//	@Failure	400	{object}	serializer.Response	"file too large"
//	@Router		/projects/{project_id}/files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("missing file field", err))
		return
	}

	var updateID *uuid.UUID
	if raw := c.PostForm("update_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid update_id", err))
			return
		}
		updateID = &id
	}

	principal := middleware.Freelancer(c)

	f, err := h.svc.Upload(c.Request.Context(), principal.ID, projectID, updateID, fh)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: f})
}

// ListFiles godoc
//
//	@Summary	List a project's files
//	@Tags		file
//	@Produce	json
//	@Param		project_id	path	string	true	"Project ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.File}
//	@Router		/projects/{project_id}/files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	files, err := h.svc.List(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: files})
}

// DownloadFile godoc
//
//	@Summary	Download a file
//	@Tags		file
//	@Produce	octet-stream
//	@Param		file_id	path	string	true	"File ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{file}		binary
//	@Failure	404	{object}	serializer.Response
//	@Router		/files/{file_id}/download [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid file_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	f, body, err := h.svc.Download(c.Request.Context(), principal.ID, fileID)
	if err != nil {
		respondErr(c, err)
		return
	}
	defer body.Close()

	streamFile(c, f.Name, f.MimeType, f.Size, body)
}

func streamFile(c *gin.Context, filename, mimeType string, size int64, body io.Reader) {
	c.DataFromReader(http.StatusOK, size, mimeType, body,
		map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
		})
}
