package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
	"github.com/joeystdio/handoff-app/internal/pkg/utils/tokens"
)

// Context keys for resolved principals. The two are never both set on one
// request: freelancer routes and client-portal routes use separate
// middlewares, and neither accepts the other's credential.
const (
	CtxFreelancer = "freelancer"
	CtxClient     = "client"
)

// FreelancerAuth authenticates the owner-side surface with a session JWT.
// Absent, malformed, expired or otherwise unverifiable credentials all end
// the same way: 401, fail closed.
func FreelancerAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := otel.Tracer("middleware").Start(c.Request.Context(), "freelancer_auth",
			trace.WithAttributes(attribute.String("middleware", "freelancer_auth")))

		raw, ok := tokens.ParseBearer(c.GetHeader("Authorization"))
		if !ok {
			span.SetAttributes(attribute.Bool("authenticated", false))
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		principal, err := auth.VerifyToken(raw)
		if err != nil {
			span.SetAttributes(attribute.Bool("authenticated", false))
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		span.SetAttributes(
			attribute.String("freelancer_id", principal.ID.String()),
			attribute.Bool("authenticated", true),
		)
		span.End()

		c.Set(CtxFreelancer, principal)
		c.Next()
	}
}

// ClientAuth authenticates the client-portal surface with the opaque access
// token, taken from the `token` query parameter or the `x-client-token`
// header, whichever is present.
func ClientAuth(clients service.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := otel.Tracer("middleware").Start(c.Request.Context(), "client_auth",
			trace.WithAttributes(attribute.String("middleware", "client_auth")))

		token := c.Query("token")
		if token == "" {
			token = c.GetHeader("x-client-token")
		}

		client, err := clients.ResolveAccessToken(ctx, token)
		if err != nil {
			span.SetAttributes(attribute.Bool("authenticated", false))
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		span.SetAttributes(
			attribute.String("client_id", client.ID.String()),
			attribute.Bool("authenticated", true),
		)
		span.End()

		c.Set(CtxClient, &authz.Client{ID: client.ID, PortalID: client.PortalID})
		c.Next()
	}
}

// Freelancer returns the principal set by FreelancerAuth.
func Freelancer(c *gin.Context) *authz.Freelancer {
	return c.MustGet(CtxFreelancer).(*authz.Freelancer)
}

// Client returns the principal set by ClientAuth.
func Client(c *gin.Context) *authz.Client {
	return c.MustGet(CtxClient).(*authz.Client)
}
