// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-support/internal/platform/request"
	"github.com/taibuivan/yomira-support/internal/platform/respond"
)

// Handler serves conversations over the JSON API and the /messages page.
type Handler struct {
	conversationService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{conversationService: service}
}

// APIRoutes returns the routes mounted at /api/v1/conversations.
//
// # Endpoints
//   - GET  /     : The caller's conversations.
//   - POST /     : Start (or reopen) a conversation.
//   - GET  /{id} : One conversation the caller takes part in.
func (handler *Handler) APIRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.start)
	router.Get("/{id}", handler.get)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.render(writer, request, viewerID)
}

func (handler *Handler) render(writer http.ResponseWriter, request *http.Request, viewerID string) {
	views, err := handler.conversationService.List(request.Context(), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

type startRequest struct {
	UserID string `json:"user_id"`
}

/*
POST /api/v1/conversations.

Request:
  - user_id: string (the other participant)

Response:
  - 200: View: the conversation, new or existing
  - 400: Malformed id or the caller's own id
  - 404: No such user
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input startRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.conversationService.Start(request.Context(), viewerID, input.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.conversationService.Get(request.Context(), viewerID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// MessagesPage serves GET /messages behind the authenticated gate.
func (handler *Handler) MessagesPage(writer http.ResponseWriter, request *http.Request) {
	handler.render(writer, request, gate.PrincipalFrom(request.Context()).ID)
}
