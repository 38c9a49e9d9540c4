package model

// Identity is the backend's view of the current session.
type Identity struct {
	UserID        *int   `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Credentials is the body of a login call.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of a register call.
type Registration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHint string `json:"password_hint,omitempty"`
}

// MutationResult is the uniform reply to every write call.
type MutationResult struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
