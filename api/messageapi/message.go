package messageapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/message"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/util"
)

// mapServiceError translates domain errors into the typed errors the handler
// wrapper knows how to render.
func mapServiceError(err error) error {
	var verr *message.ValidationError
	if errors.As(err, &verr) {
		return &app.ValidationError{Message: verr.Message}
	}
	if errors.Is(err, message.ErrNotFound) {
		return &app.UserError{Message: "message not found", StatusCode: http.StatusNotFound}
	}
	if errors.Is(err, message.ErrForbidden) {
		return &app.UserError{Message: "insufficient authorization level", StatusCode: http.StatusForbidden}
	}
	return err
}

func (a *api) BellFeed(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	items, err := a.messageService.BellFeed(r.Context(), ctx.User.ID)
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(items, 1, "bell notifications fetched successfully"))
	return nil
}

func (a *api) MarkBellRead(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	err := a.messageService.MarkRead(r.Context(), ctx.User.ID, ctx.Vars["id"])
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(nil, 1, "notification marked as read"))
	return nil
}

func (a *api) MarkAllBellRead(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	count, err := a.messageService.MarkAllRead(r.Context(), ctx.User.ID)
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(map[string]int{"marked": count}, 1, "all notifications marked as read"))
	return nil
}

func (a *api) RemoveBellNotification(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	err := a.messageService.RemoveFromBell(r.Context(), ctx.User.ID, ctx.Vars["id"])
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(nil, 1, "notification removed"))
	return nil
}

func (a *api) SystemMessages(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	items, total, err := a.messageService.SystemMessages(r.Context(), ctx.User.ID, message.ListQuery{
		Type:  query.Get("type"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return mapServiceError(err)
	}

	json.NewEncoder(w).Encode(util.SetResponse(map[string]interface{}{
		"messages": items,
		"total":    total,
	}, 1, "system messages fetched successfully"))
	return nil
}

func (a *api) MarkSystemRead(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	err := a.messageService.MarkRead(r.Context(), ctx.User.ID, ctx.Vars["id"])
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(nil, 1, "message marked as read"))
	return nil
}

func (a *api) DeleteSystemMessage(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	err := a.messageService.DeleteFromSystem(r.Context(), ctx.User.ID, ctx.Vars["id"])
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(nil, 1, "message deleted"))
	return nil
}

func (a *api) CreateBroadcast(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	var in message.BroadcastInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return &app.ValidationError{Message: "unable to parse request body"}
	}

	msg, err := a.messageService.CreateBroadcast(r.Context(), ctx.User, in)
	if err != nil {
		return mapServiceError(err)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(util.SetResponse(msg, 1, "system message created"))
	return nil
}

type welcomeRequest struct {
	UserID string `json:"userId"`
}

func (a *api) SendWelcome(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	var req welcomeRequest
	// Body is optional; an empty body targets the caller.
	_ = json.NewDecoder(r.Body).Decode(&req)

	userID := req.UserID
	if userID == "" {
		userID = ctx.User.ID
	}
	// Sending on behalf of another user is an administrative action.
	if userID != ctx.User.ID && !ctx.User.Role.AtLeast(model.RoleAdministrator) {
		return &app.UserError{Message: "insufficient authorization level", StatusCode: http.StatusForbidden}
	}

	msg, created, err := a.messageService.SendWelcome(r.Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}
	if !created {
		json.NewEncoder(w).Encode(util.SetResponse(nil, 1, "welcome message already sent"))
		return nil
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(util.SetResponse(msg, 1, "welcome message sent"))
	return nil
}

func (a *api) UnreadCounts(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	counts, err := a.messageService.UnreadCounts(r.Context(), ctx.User.ID)
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(counts, 1, "unread counts fetched successfully"))
	return nil
}

func (a *api) Connect(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	return a.hub.Attach(ctx.User.ID, w, r)
}

func (a *api) SweepExpired(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	if !ctx.User.Role.AtLeast(model.RoleAdministrator) {
		return &app.UserError{Message: "insufficient authorization level", StatusCode: http.StatusForbidden}
	}
	count, err := a.messageService.SweepExpired(r.Context())
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(map[string]int64{"deactivated": count}, 1, "expired messages cleaned"))
	return nil
}

func (a *api) PurgeLegacy(ctx *app.Context, w http.ResponseWriter, r *http.Request) error {
	if !ctx.User.Role.AtLeast(model.RoleAdministrator) {
		return &app.UserError{Message: "insufficient authorization level", StatusCode: http.StatusForbidden}
	}
	count, err := a.messageService.PurgeLegacy(r.Context())
	if err != nil {
		return mapServiceError(err)
	}
	json.NewEncoder(w).Encode(util.SetResponse(map[string]int64{"purged": count}, 1, "legacy records cleaned"))
	return nil
}
