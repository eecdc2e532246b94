// Package seed bundles the default user dataset consumed once when the
// persisted user collection is empty. Passwords here are bootstrap
// credentials; they are hashed before anything touches storage.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"docflow/internal/model"
)

//go:embed users.json
var usersJSON []byte

// User is one bundled account with its bootstrap password.
type User struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       model.Role `json:"role"`
	Company    string     `json:"company"`
	Department string     `json:"department"`
}

// Users decodes the bundled dataset.
func Users() ([]User, error) {
	var users []User
	if err := json.Unmarshal(usersJSON, &users); err != nil {
		return nil, fmt.Errorf("seed: decode users: %w", err)
	}
	return users, nil
}
