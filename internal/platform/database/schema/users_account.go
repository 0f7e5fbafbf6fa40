// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	DisplayName string
	Password    string
	Role        string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	DisplayName: "displayname",
	Password:    "passwordhash",
	Role:        "role",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns the columns of a full account row, password hash included.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.DisplayName, t.Password, t.Role, t.CreatedAt, t.UpdatedAt}
}
