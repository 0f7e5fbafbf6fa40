// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/internal/users/auth"
	"github.com/taibuivan/yomira-support/pkg/uuid"
)

// Service starts and reads conversations for one viewer at a time.
type Service struct {
	repository Repository
	accounts   AccountReader
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, accounts AccountReader, logger *slog.Logger) *Service {
	return &Service{repository: repository, accounts: accounts, logger: logger}
}

func participantOf(user *auth.User) Participant {
	return Participant{ID: user.ID, DisplayName: user.DisplayName, Role: user.Role}
}

/*
Start returns the conversation between viewerID and otherUserID, creating it on
first contact.

Returns:
  - *View: the conversation as seen by the viewer
  - error: ValidationError (self or malformed id), NotFound (other user) or store failures
*/
func (service *Service) Start(context context.Context, viewerID, otherUserID string) (*View, error) {
	otherID, ok := uuid.Canonical(otherUserID)

	validator := &validate.Validator{}
	validator.Custom(FieldUserID, !ok, "Must be a valid UUID").
		Custom(FieldUserID, ok && otherID == viewerID, "Cannot start a conversation with yourself")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	other, err := service.accounts.FindByID(context, otherID)
	if err != nil {
		return nil, fmt.Errorf("conversation_service_user_lookup_failed: %w", err)
	}

	user1, user2 := OrderedPair(viewerID, otherID)
	conversation, created, err := service.repository.GetOrCreate(context, uuid.New(), user1, user2)
	if err != nil {
		return nil, fmt.Errorf("conversation_service_start_failed: %w", err)
	}

	if created {
		service.logger.InfoContext(context, "conversation_started",
			slog.String("conversation_id", conversation.ID),
			slog.String("user1_id", user1),
			slog.String("user2_id", user2),
		)
	}

	return &View{ID: conversation.ID, With: participantOf(other), CreatedAt: conversation.CreatedAt}, nil
}

// List returns the viewer's conversations.
func (service *Service) List(context context.Context, viewerID string) ([]*View, error) {
	views, err := service.repository.ListForUser(context, viewerID)
	if err != nil {
		return nil, fmt.Errorf("conversation_service_list_failed: %w", err)
	}
	return views, nil
}

// Get returns one conversation. A viewer outside the pair gets NotFound, exactly
// as if the conversation did not exist.
func (service *Service) Get(context context.Context, viewerID, id string) (*View, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound(resourceConversation)
	}

	conversation, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("conversation_service_get_failed: %w", err)
	}
	if !conversation.Includes(viewerID) {
		return nil, apperr.NotFound(resourceConversation)
	}

	other, err := service.accounts.FindByID(context, conversation.OtherParty(viewerID))
	if err != nil {
		return nil, fmt.Errorf("conversation_service_other_party_failed: %w", err)
	}

	return &View{ID: conversation.ID, With: participantOf(other), CreatedAt: conversation.CreatedAt}, nil
}
