package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/api/common"
	messageApipk "github.com/TravisHFan/at-Cloud-sign-up-system-sub013/api/messageapi"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app"
)

// API atcloud notification api
type API struct {
	App    *app.App
	Config *common.Config
}

// New creates a new api
func New(a *app.App) (api *API, err error) {
	api = &API{App: a}
	api.Config, err = common.InitConfig()
	if err != nil {
		return nil, err
	}
	return api, nil
}

// Init initializes the api
func (a *API) Init(r *mux.Router) {

	messageAPI := messageApipk.New(a.Config, a.App.MessageService, a.App.Hub)

	/* ****************** BELL FEED ****************** */
	r.Handle("/bell-notifications", a.handler(messageAPI.BellFeed, true)).Methods(http.MethodGet)
	r.Handle("/bell-notifications/read-all", a.handler(messageAPI.MarkAllBellRead, true)).Methods(http.MethodPatch)
	r.Handle("/bell-notifications/{id}/read", a.handler(messageAPI.MarkBellRead, true)).Methods(http.MethodPatch)
	r.Handle("/bell-notifications/{id}", a.handler(messageAPI.RemoveBellNotification, true)).Methods(http.MethodDelete)

	/* ****************** SYSTEM MESSAGES ****************** */
	r.Handle("/system-messages", a.handler(messageAPI.SystemMessages, true)).Methods(http.MethodGet)
	r.Handle("/system-messages", a.handler(messageAPI.CreateBroadcast, true)).Methods(http.MethodPost)
	r.Handle("/system-messages/{id}/read", a.handler(messageAPI.MarkSystemRead, true)).Methods(http.MethodPatch)
	r.Handle("/system-messages/{id}", a.handler(messageAPI.DeleteSystemMessage, true)).Methods(http.MethodDelete)

	/* ****************** NOTIFICATION STATE ****************** */
	r.Handle("/unread-counts", a.handler(messageAPI.UnreadCounts, true)).Methods(http.MethodGet)
	r.Handle("/welcome-notification", a.handler(messageAPI.SendWelcome, true)).Methods(http.MethodPost)

	/* ****************** REALTIME ****************** */
	r.Handle("/ws", a.handler(messageAPI.Connect, true)).Methods(http.MethodGet)

	/* ****************** MAINTENANCE ****************** */
	r.Handle("/maintenance/expired", a.handler(messageAPI.SweepExpired, true)).Methods(http.MethodPost)
	r.Handle("/maintenance/legacy", a.handler(messageAPI.PurgeLegacy, true)).Methods(http.MethodPost)
}
