// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/taibuivan/yomira-support/internal/platform/respond"
)

// Handler serves the forum index.
type Handler struct {
	categoryService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{categoryService: service}
}

// ForumPage serves GET /support/forum: every category in display order.
func (handler *Handler) ForumPage(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.categoryService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}
