// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MessagingConversationTable represents the 'messaging.conversation' table
type MessagingConversationTable struct {
	Table     string
	ID        string
	User1ID   string
	User2ID   string
	CreatedAt string
}

// MessagingConversation is the schema definition for messaging.conversation
var MessagingConversation = MessagingConversationTable{
	Table:     "messaging.conversation",
	ID:        "id",
	User1ID:   "user1id",
	User2ID:   "user2id",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t MessagingConversationTable) Columns() []string {
	return []string{t.ID, t.User1ID, t.User2ID, t.CreatedAt}
}
