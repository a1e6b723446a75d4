package router

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/handler"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

// DNS label: lowercase alphanumerics and hyphens, no leading or trailing
// hyphen, at most 63 chars.
var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return subdomainRe.MatchString(fl.Field().String())
		})
	}
}

type RouterDeps struct {
	Config              *config.Config
	Log                 *zap.Logger
	AuthService         service.AuthService
	ClientService       service.ClientService
	AuthHandler         *handler.AuthHandler
	PortalHandler       *handler.PortalHandler
	ClientHandler       *handler.ClientHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	UpdateHandler       *handler.UpdateHandler
	FileHandler         *handler.FileHandler
	ClientPortalHandler *handler.ClientPortalHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	if d.Config.Swagger.Enabled {
		r.GET("/swagger", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.AuthHandler.Register)
			auth.POST("/login", d.AuthHandler.Login)
			auth.GET("/me", middleware.FreelancerAuth(d.AuthService), d.AuthHandler.Me)
		}

		// Public, read-only portal lookup for the client-facing frontend.
		// Lives outside /portals so the static segment cannot collide with
		// the :portal_id wildcard.
		v1.GET("/lookup/:subdomain", d.PortalHandler.LookupSubdomain)

		owner := v1.Group("")
		owner.Use(middleware.FreelancerAuth(d.AuthService))
		{
			portals := owner.Group("/portals")
			{
				portals.POST("", d.PortalHandler.CreatePortal)
				portals.GET("", d.PortalHandler.ListPortals)
				portals.DELETE("/:portal_id", d.PortalHandler.DeletePortal)

				portals.POST("/:portal_id/clients", d.ClientHandler.CreateClient)
				portals.GET("/:portal_id/clients", d.ClientHandler.ListClients)
			}

			clients := owner.Group("/clients")
			{
				clients.GET("/:client_id/activity", d.ClientHandler.ClientActivity)
				clients.POST("/:client_id/projects", d.ProjectHandler.CreateProject)
				clients.GET("/:client_id/projects", d.ProjectHandler.ListProjects)
			}

			projects := owner.Group("/projects")
			{
				projects.GET("/:project_id", d.ProjectHandler.GetProject)
				projects.POST("/:project_id/tasks", d.TaskHandler.CreateTask)
				projects.GET("/:project_id/tasks", d.TaskHandler.ListTasks)
				projects.POST("/:project_id/updates", d.UpdateHandler.CreateUpdate)
				projects.GET("/:project_id/updates", d.UpdateHandler.ListUpdates)
				projects.POST("/:project_id/files", d.FileHandler.UploadFile)
				projects.GET("/:project_id/files", d.FileHandler.ListFiles)
			}

			tasks := owner.Group("/tasks")
			{
				tasks.PATCH("/:task_id", d.TaskHandler.UpdateTask)
				tasks.DELETE("/:task_id", d.TaskHandler.DeleteTask)
			}

			owner.GET("/files/:file_id/download", d.FileHandler.DownloadFile)
		}

		portal := v1.Group("/portal")
		portal.Use(middleware.ClientAuth(d.ClientService))
		{
			portal.GET("/projects", d.ClientPortalHandler.PortalProjects)
			portal.GET("/projects/:project_id", d.ClientPortalHandler.PortalProject)
			portal.POST("/projects/:project_id/updates", d.ClientPortalHandler.PortalReply)
			portal.GET("/files/:file_id/download", d.ClientPortalHandler.PortalDownload)
		}
	}
	return r
}
