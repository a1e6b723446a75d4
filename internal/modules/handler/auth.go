package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// Register godoc
//
//	@Summary	Register a freelancer account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RegisterReq	true	"Registration"
//	@Success	201		{object}	serializer.Response{data=service.SessionOutput}
//	@Failure	409		{object}	serializer.Response
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary	Log in and receive a session token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginReq	true	"Credentials"
//	@Success	200		{object}	serializer.Response{data=service.SessionOutput}
//	@Failure	401		{object}	serializer.Response
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// Me godoc
//
//	@Summary	Current freelancer profile
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=model.Freelancer}
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.Freelancer(c)

	f, err := h.svc.Me(c.Request.Context(), principal.ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: f})
}
