package domain

// Catalog holds the assignable role and permission labels kept in the
// data collection.
type Catalog struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
