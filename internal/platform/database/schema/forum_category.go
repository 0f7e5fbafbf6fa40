// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumCategoryTable represents the 'forum.category' table
type ForumCategoryTable struct {
	Table       string
	ID          string
	Slug        string
	Name        string
	Description string
	SortOrder   string
}

// ForumCategory is the schema definition for forum.category
var ForumCategory = ForumCategoryTable{
	Table:       "forum.category",
	ID:          "id",
	Slug:        "slug",
	Name:        "name",
	Description: "description",
	SortOrder:   "sortorder",
}

// Columns returns all standard column names
func (t ForumCategoryTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.Description, t.SortOrder}
}
