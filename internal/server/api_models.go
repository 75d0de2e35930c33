package server

// CreateAccountRequest represents the payload required to create an account.
type CreateAccountRequest struct {
	Slug string `json:"slug" example:"ada"`
	Name string `json:"name" example:"Ada Lovelace"`
}

// FillRequest targets one application form.
type FillRequest struct {
	TargetURL string `json:"target_url" example:"https://boards.greenhouse.io/acme/jobs/42"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
