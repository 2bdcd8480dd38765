package app

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// Context per request state
type Context struct {
	Logger        logrus.FieldLogger
	RemoteAddress string
	User          *model.AuthUser
	Vars          map[string]string
}

// WithLogger sets logger for context
func (ctx *Context) WithLogger(logger logrus.FieldLogger) *Context {
	ret := *ctx
	ret.Logger = logger
	return &ret
}

// WithRemoteAddress sets remote address for context
func (ctx *Context) WithRemoteAddress(address string) *Context {
	ret := *ctx
	ret.RemoteAddress = address
	return &ret
}

// WithUser sets the verified identity for context
func (ctx *Context) WithUser(user *model.AuthUser) *Context {
	ret := *ctx
	ret.User = user
	return &ret
}

// AuthorizationError helper for when no verified identity is attached
func (ctx *Context) AuthorizationError(isInvalidToken bool) *UserError {
	if isInvalidToken {
		return &UserError{Message: "Token has expired", StatusCode: http.StatusUnauthorized}
	}
	return &UserError{Message: "Authentication required", StatusCode: http.StatusUnauthorized}
}
