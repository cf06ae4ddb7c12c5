package domain

// ============================================================
// Coach auth — Request / Response types
// ============================================================

// Coach is a human advisor allowed to browse assessments.
type Coach struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// CoachSignInRequest is the body for POST /v1/coach/signin.
type CoachSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CoachSignInResponse is the body for 200 from POST /v1/coach/signin.
type CoachSignInResponse struct {
	AccessToken string `json:"token"`
	ExpiresIn   int    `json:"expiresIn"`
	Coach       *Coach `json:"coach"`
}
