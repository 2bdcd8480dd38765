package common

import (
	"net/http"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app"
)

// HandlerFuncWithCTX - type is an adapter to use handlerfunc with ctx
type HandlerFuncWithCTX func(*app.Context, http.ResponseWriter, *http.Request) error

// StatusCodeRecorder wraps a ResponseWriter to capture the final status code
// for request logging. Hijacker is retained so websocket upgrades still work.
type StatusCodeRecorder struct {
	http.ResponseWriter
	http.Hijacker
	StatusCode int
}

func (r *StatusCodeRecorder) WriteHeader(statusCode int) {
	r.StatusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
