package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s}
}

type CreateTaskReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Stage       string     `json:"stage" binding:"omitempty,oneof=backlog in_progress review done"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateTask godoc
//
//	@Summary	Create a task in a project
//	@Tags		task
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string			true	"Project ID"	format(uuid)
//	@Param		body		body		CreateTaskReq	true	"Task"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response{data=model.Task}
//	@Router		/projects/{project_id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := CreateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	t, err := h.svc.Create(c.Request.Context(), principal.ID, projectID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Stage:       req.Stage,
		Position:    req.Position,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: t})
}

// ListTasks godoc
//
//	@Summary	List a project's tasks
//	@Tags		task
//	@Produce	json
//	@Param		project_id	path	string	true	"Project ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Task}
//	@Router		/projects/{project_id}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	tasks, err := h.svc.List(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: tasks})
}

type UpdateTaskReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Stage       *string    `json:"stage" binding:"omitempty,oneof=backlog in_progress review done"`
	Position    *int       `json:"position"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTask godoc
//
//	@Summary		Partially update a task
//	@Description	Only the fields present in the body are changed. An empty body is accepted and changes nothing.
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path		string			true	"Task ID"	format(uuid)
//	@Param			body	body		UpdateTaskReq	true	"Changed fields"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Failure		404	{object}	serializer.Response
//	@Router			/tasks/{task_id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}
	req := UpdateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	principal := middleware.Freelancer(c)

	t, err := h.svc.Update(c.Request.Context(), principal.ID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Stage:       req.Stage,
		Position:    req.Position,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// DeleteTask godoc
//
//	@Summary	Delete a task
//	@Tags		task
//	@Produce	json
//	@Param		task_id	path	string	true	"Task ID"	format(uuid)
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/tasks/{task_id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}

	principal := middleware.Freelancer(c)

	if err := h.svc.Delete(c.Request.Context(), principal.ID, taskID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}
