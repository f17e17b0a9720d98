package types

import "time"

// UserInfo holds directory attributes for a workspace owner.
// Found distinguishes "user exists with empty fields" from "no such user";
// a missing owner is a normal outcome, not an error.
type UserInfo struct {
	Found       bool   `json:"found"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	Enabled     bool   `json:"enabled"`
	Email       string `json:"email"`
	ManagerName string `json:"manager_name"`
	Mobile      string `json:"mobile"`
}

// ComputerInfo holds directory attributes for a workspace's computer object.
type ComputerInfo struct {
	Found   bool      `json:"found"`
	Created time.Time `json:"created"`
	OS      string    `json:"os"`
}
