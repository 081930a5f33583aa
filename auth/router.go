package auth

import (
	"net/http"

	"predictor/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc receives the verified caller, or nil on routes registered
// with AllowAnonymous.
type HandlerFunc func(c *gin.Context, user *models.User)

type Option uint8

// AllowAnonymous lets the request through without credentials; the handler
// gets a nil user instead of a 401 short-circuit.
const AllowAnonymous Option = 1

// Router is a wrapper class that adds the Basic auth check + User pre-loading
type Router struct {
	Base *gin.Engine
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, opts []Option) {
	user := CurrentUser(c)
	if user == nil && !hasOption(opts, AllowAnonymous) {
		c.Header("WWW-Authenticate", "Basic")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
		return
	}
	handler(c, user)
}

func hasOption(opts []Option, opt Option) bool {
	for _, o := range opts {
		if o == opt {
			return true
		}
	}
	return false
}

func (cr *Router) GET(path string, handler HandlerFunc, opts ...Option) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, opts)
	})
}

func (cr *Router) POST(path string, handler HandlerFunc, opts ...Option) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, opts)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, opts ...Option) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, opts)
	})
}
