package transport

// LoginRequest is the credential-issuing payload for the auth boundary.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer credential.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates a new identity via the auth or directory boundary.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// TaskCreateRequest is the task-draft payload. DueDate is RFC 3339 or empty.
type TaskCreateRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	DueDate      string `json:"due_date,omitempty"`
	AssignedToID string `json:"assigned_to_id,omitempty"`
}

// TaskPatchRequest is the partial-update payload; only set fields are applied.
type TaskPatchRequest struct {
	Status string `json:"status,omitempty"`
}
