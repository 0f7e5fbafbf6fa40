// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-support/internal/platform/request"
	"github.com/taibuivan/yomira-support/internal/platform/respond"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/pkg/pagination"
)

// Handler serves role administration over the JSON API and the admin pages.
type Handler struct {
	roleService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{roleService: service}
}

// APIRoutes returns the routes mounted at /api/v1/admin.
//
// # Endpoints
//   - GET   /users           : Paginated user listing.
//   - PATCH /users/{id}/role : Change a user's role.
func (handler *Handler) APIRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/users", handler.listUsers)
	router.Patch("/users/{id}/role", handler.setRole)

	return router
}

type setRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/admin/users/{id}/role.

Response:
  - 200: User: the target after the change (or unchanged when already in that role)
  - 400: Unknown role
  - 403: Actor may not make this change
  - 404: Target not found
*/
func (handler *Handler) setRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID, err := requestutil.UUIDParam(request, "id", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.roleService.SetRole(request.Context(), actorID, targetID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.renderUsers(writer, request, actorID)
}

func (handler *Handler) renderUsers(writer http.ResponseWriter, request *http.Request, actorID string) {
	query := request.URL.Query()
	filter := ListFilter{Role: sec.UserRole(query.Get("role")), Email: query.Get("q")}

	users, meta, err := handler.roleService.ListUsers(request.Context(), actorID, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// # Pages

// DashboardPage serves GET /admin behind the admin gate.
func (handler *Handler) DashboardPage(writer http.ResponseWriter, request *http.Request) {
	principal := gate.PrincipalFrom(request.Context())

	dashboard, err := handler.roleService.Dashboard(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dashboard)
}

// UsersPage serves GET /admin/users behind the admin gate.
func (handler *Handler) UsersPage(writer http.ResponseWriter, request *http.Request) {
	handler.renderUsers(writer, request, gate.PrincipalFrom(request.Context()).ID)
}
