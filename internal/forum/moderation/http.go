// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-support/internal/platform/request"
	"github.com/taibuivan/yomira-support/internal/platform/respond"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// Handler serves the moderator endpoints and the /mod page.
type Handler struct {
	moderationService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{moderationService: service}
}

// APIRoutes returns the routes mounted at /api/v1/mod.
//
// # Endpoints
//   - DELETE /threads/{id} : Delete a thread and its replies.
//   - DELETE /replies/{id} : Delete a reply.
func (handler *Handler) APIRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleMod))

	router.Delete("/threads/{id}", handler.deleteThread)
	router.Delete("/replies/{id}", handler.deleteReply)

	return router
}

/*
DELETE /api/v1/mod/threads/{id}.

Response:
  - 204: Deleted, or already absent
  - 403: Actor is not a moderator
*/
func (handler *Handler) deleteThread(writer http.ResponseWriter, request *http.Request) {
	handler.delete(writer, request, handler.moderationService.DeleteThread)
}

// DELETE /api/v1/mod/replies/{id}.
func (handler *Handler) deleteReply(writer http.ResponseWriter, request *http.Request) {
	handler.delete(writer, request, handler.moderationService.DeleteReply)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request, remove func(ctx context.Context, actorID, id string) error) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := remove(request.Context(), actorID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// QueuePage serves GET /mod behind the moderator gate.
func (handler *Handler) QueuePage(writer http.ResponseWriter, request *http.Request) {
	queue, err := handler.moderationService.Queue(request.Context(), gate.PrincipalFrom(request.Context()).ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, queue)
}
