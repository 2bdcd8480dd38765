package messageapi

import (
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/api/common"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/message"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/realtime"
)

type api struct {
	config         *common.Config
	messageService message.Service
	hub            *realtime.Hub
}

// New creates a new message api
func New(conf *common.Config, messageService message.Service, hub *realtime.Hub) *api {
	return &api{
		config:         conf,
		messageService: messageService,
		hub:            hub,
	}
}
