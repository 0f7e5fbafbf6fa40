// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumThreadTable represents the 'forum.thread' table
type ForumThreadTable struct {
	Table      string
	ID         string
	Title      string
	Body       string
	AuthorID   string
	CategoryID string
	CreatedAt  string
	UpdatedAt  string
}

// ForumThread is the schema definition for forum.thread
var ForumThread = ForumThreadTable{
	Table:      "forum.thread",
	ID:         "id",
	Title:      "title",
	Body:       "body",
	AuthorID:   "authorid",
	CategoryID: "categoryid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t ForumThreadTable) Columns() []string {
	return []string{t.ID, t.Title, t.Body, t.AuthorID, t.CategoryID, t.CreatedAt, t.UpdatedAt}
}
