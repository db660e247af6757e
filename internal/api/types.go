package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string

// --- Tags ---

// Tag is a tag known to the backend. Identity is ID.
type Tag struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count,omitempty"`
}

// TagSearchResult is the payload of /api/tags/search.
type TagSearchResult struct {
	Success bool  `json:"success"`
	Tags    []Tag `json:"tags"`
}

// --- Questions ---

// Question is a posted question with its resolved tags.
type Question struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []Tag     `json:"tags"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionInput is the create/update payload. New tags are promoted to real
// tags by the server on submit.
type QuestionInput struct {
	Title   string   `json:"title" validate:"required,min=8,max=150"`
	Body    string   `json:"body" validate:"required,min=20"`
	TagIDs  []string `json:"tag_ids" validate:"dive,required"`
	NewTags []string `json:"new_tags" validate:"dive,required"`
}

// --- Auth ---

// LoginInput defines the credentials for logging in.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse contains the session information after successful login.
type LoginResponse struct {
	APIKey   string `json:"api_key"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
