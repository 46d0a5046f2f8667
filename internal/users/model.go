package users

// User represents a rider account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"correo"`
}

// RegisterRequest is the body for POST /Users. ID is always 0; the server assigns it.
type RegisterRequest struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"correo"`
}
