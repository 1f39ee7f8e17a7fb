package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrioja/geotodo-backend/internal/models"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationInput uses pointers so a half pair (latitude without longitude,
// or the reverse) can be rejected instead of silently defaulting to zero.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *LocationInput) Complete() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

type CreateTodoRequest struct {
	Title     string         `json:"title"`
	Completed *bool          `json:"completed"`
	Location  *LocationInput `json:"location"`
	PhotoURI  *string        `json:"photoUri"`
}

// UpdateTodoRequest is the PUT body: the full field set, as with create.
type UpdateTodoRequest struct {
	Title     string         `json:"title"`
	Completed *bool          `json:"completed"`
	Location  *LocationInput `json:"location"`
	PhotoURI  *string        `json:"photoUri"`
}

type TodoResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Location  *Location `json:"location,omitempty"`
	PhotoURI  *string   `json:"photoUri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoListResponse carries the count at the top level of the envelope.
type TodoListResponse struct {
	Success bool           `json:"success"`
	Data    []TodoResponse `json:"data"`
	Count   int            `json:"count"`
}

// DeletedTodoResponse returns the removed todo alongside a confirmation.
type DeletedTodoResponse struct {
	Success bool         `json:"success"`
	Data    TodoResponse `json:"data"`
	Message string       `json:"message"`
}

func NewTodoResponse(t *models.Todo) TodoResponse {
	resp := TodoResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		PhotoURI:  t.PhotoURI,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Latitude != nil && t.Longitude != nil {
		resp.Location = &Location{Latitude: *t.Latitude, Longitude: *t.Longitude}
	}
	return resp
}
