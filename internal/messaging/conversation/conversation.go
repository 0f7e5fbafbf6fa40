// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package conversation manages direct-message conversations between two accounts.

A pair of accounts shares exactly one conversation. The pair is stored ordered
(user1 < user2), so starting a conversation from either side finds the same row.
Who the "other party" is depends on the viewer and is derived on read.
*/
package conversation

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// FieldUserID is the request field naming the other participant.
const FieldUserID = "user_id"

// Conversation is the stored pair.
type Conversation struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Includes reports whether userID is one of the two participants.
func (c *Conversation) Includes(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParty returns the participant that is not viewerID.
func (c *Conversation) OtherParty(viewerID string) string {
	if c.User1ID == viewerID {
		return c.User2ID
	}
	return c.User1ID
}

// OrderedPair returns a and b with the smaller id first.
func OrderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Participant is the public face of the other party.
type Participant struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	Role        sec.UserRole `json:"role"`
}

// View is a conversation as seen by one of its participants.
type View struct {
	ID        string      `json:"id"`
	With      Participant `json:"with"`
	CreatedAt time.Time   `json:"created_at"`
}

// Repository defines the persistence contract for conversations.
type Repository interface {

	/*
		GetOrCreate returns the conversation of an ordered pair, inserting it
		with id when absent.

		Returns:
		  - *Conversation: the stored row
		  - bool: true when this call created it
		  - error: store failures
	*/
	GetOrCreate(context context.Context, id, user1ID, user2ID string) (*Conversation, bool, error)

	FindByID(context context.Context, id string) (*Conversation, error)

	// ListForUser returns userID's conversations, newest first, with the other
	// party already resolved.
	ListForUser(context context.Context, userID string) ([]*View, error)
}

// AccountReader loads participants.
type AccountReader interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}
