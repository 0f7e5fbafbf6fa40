// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thread

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-support/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-support/internal/platform/request"
	"github.com/taibuivan/yomira-support/internal/platform/respond"
	"github.com/taibuivan/yomira-support/pkg/pagination"
)

// Handler serves thread pages and the posting endpoints.
type Handler struct {
	threadService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{threadService: service}
}

// APIRoutes returns the routes mounted at /api/v1/threads.
//
// # Endpoints
//   - POST /              : Start a thread.
//   - POST /{id}/replies  : Reply to a thread.
func (handler *Handler) APIRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.createThread)
	router.Post("/{id}/replies", handler.createReply)

	return router
}

/*
POST /api/v1/threads.

Request:
  - title: string (3-200)
  - body: string (1-20000)
  - category_slug: string

Response:
  - 201: Thread
  - 400: Validation failure or unknown category
  - 401: Authentication required
*/
func (handler *Handler) createThread(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateThreadInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	thread, err := handler.threadService.CreateThread(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, thread)
}

type createReplyRequest struct {
	Body string `json:"body"`
}

func (handler *Handler) createReply(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	threadID, err := requestutil.UUIDParam(request, "id", resourceThread)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReplyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.threadService.CreateReply(request.Context(), authorID, threadID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, reply)
}

// # Pages

// CategoryPage serves GET /support/forum/{slug}.
func (handler *Handler) CategoryPage(writer http.ResponseWriter, request *http.Request) {
	page, meta, err := handler.threadService.ListByCategory(request.Context(), requestutil.Param(request, "slug"), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page, meta)
}

// ThreadPage serves GET /support/forum/thread/{id}.
func (handler *Handler) ThreadPage(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.threadService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}
