package dto

// RegisterUserRequest payload for new users.
type RegisterUserRequest struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// UpdateUserRequest payload for profile mutation.
type UpdateUserRequest struct {
	Phone       string   `json:"phone"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// ChangePasswordRequest payload for password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
