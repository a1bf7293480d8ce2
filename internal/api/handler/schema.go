package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// uploadErrorResponse is the envelope used by the upload endpoint. File
// validation failures also carry Error = "Bad Request".
type uploadErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// --- Request / Response types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type renameRequest struct {
	Name string `json:"name" validate:"notblank,max=200"`
}

type successResponse struct {
	Success bool `json:"success"`
}
