package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
	"github.com/joeystdio/handoff-app/internal/pkg/paging"
)

// respondErr maps service errors on the freelancer surface, where 403 and
// 404 stay distinct: the owner is trusted to learn that an id exists.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(""))
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(""))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, serializer.ConflictErr(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(err.Error()))
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, paging.ErrBadCursor):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// respondClientErr maps service errors on the client-portal surface, where
// forbidden collapses into 404 so a guessed foreign id is indistinguishable
// from a missing one.
func respondClientErr(c *gin.Context, err error) {
	if errors.Is(err, authz.ErrForbidden) || errors.Is(err, authz.ErrNotFound) {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(""))
		return
	}
	c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
}
