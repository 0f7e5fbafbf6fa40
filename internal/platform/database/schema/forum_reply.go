// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumReplyTable represents the 'forum.reply' table
type ForumReplyTable struct {
	Table     string
	ID        string
	Body      string
	ThreadID  string
	AuthorID  string
	CreatedAt string
}

// ForumReply is the schema definition for forum.reply
var ForumReply = ForumReplyTable{
	Table:     "forum.reply",
	ID:        "id",
	Body:      "body",
	ThreadID:  "threadid",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ForumReplyTable) Columns() []string {
	return []string{t.ID, t.Body, t.ThreadID, t.AuthorID, t.CreatedAt}
}
