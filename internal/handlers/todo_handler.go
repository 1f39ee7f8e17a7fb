package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mrioja/geotodo-backend/internal/auth"
	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/services"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// List handles GET /todos - returns the user's todos, newest first.
func (h *TodoHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	todos, err := h.todoService.List(userID)
	if err != nil {
		slog.Error("failed to list todos", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch todos"))
	}

	responses := make([]dto.TodoResponse, len(todos))
	for i := range todos {
		responses[i] = dto.NewTodoResponse(&todos[i])
	}

	return c.JSON(dto.TodoListResponse{
		Success: true,
		Data:    responses,
		Count:   len(responses),
	})
}

// Get handles GET /todos/:id.
func (h *TodoHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
	}

	todo, err := h.todoService.Get(userID, id)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
		}
		slog.Error("failed to fetch todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch todo"))
	}

	return c.JSON(dto.OK(dto.NewTodoResponse(todo)))
}

// Create handles POST /todos.
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	in, errMsg := todoInputFrom(req.Title, req.Completed, req.Location, req.PhotoURI)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(errMsg))
	}

	todo, err := h.todoService.Create(userID, in)
	if err != nil {
		slog.Error("failed to create todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to create todo"))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(dto.NewTodoResponse(todo)))
}

// Update handles PUT /todos/:id - full replacement.
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
	}

	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	in, errMsg := todoInputFrom(req.Title, req.Completed, req.Location, req.PhotoURI)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(errMsg))
	}

	todo, err := h.todoService.Replace(userID, id, in)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
		}
		slog.Error("failed to update todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update todo"))
	}

	return c.JSON(dto.OK(dto.NewTodoResponse(todo)))
}

// Patch handles PATCH /todos/:id - only the supplied fields change. The
// body is decoded field-by-field because an absent key and an explicit
// null mean different things here: null clears location or photo.
func (h *TodoHandler) Patch(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
	}

	patch, errMsg := parseTodoPatch(c.Body())
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(errMsg))
	}

	todo, err := h.todoService.Patch(userID, id, patch)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
		}
		slog.Error("failed to patch todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update todo"))
	}

	return c.JSON(dto.OK(dto.NewTodoResponse(todo)))
}

// Delete handles DELETE /todos/:id - returns the deleted todo.
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
	}

	todo, err := h.todoService.Delete(userID, id)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Todo not found"))
		}
		slog.Error("failed to delete todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete todo"))
	}

	return c.JSON(dto.DeletedTodoResponse{
		Success: true,
		Data:    dto.NewTodoResponse(todo),
		Message: "Todo deleted successfully",
	})
}

// todoInputFrom validates the shared create/replace fields. Returns a
// non-empty message on validation failure.
func todoInputFrom(title string, completed *bool, location *dto.LocationInput, photoURI *string) (*services.TodoInput, string) {
	if strings.TrimSpace(title) == "" {
		return nil, "Title is required"
	}

	in := &services.TodoInput{
		Title:    title,
		PhotoURI: photoURI,
	}
	if completed != nil {
		in.Completed = *completed
	}
	if location != nil {
		if !location.Complete() {
			return nil, "Location must include latitude and longitude"
		}
		in.Location = &dto.Location{Latitude: *location.Latitude, Longitude: *location.Longitude}
	}
	return in, ""
}

var jsonNull = []byte("null")

func parseTodoPatch(body []byte) (*services.TodoPatch, string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, "Invalid request body"
	}

	patch := &services.TodoPatch{}

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil || strings.TrimSpace(title) == "" {
			return nil, "Title is required"
		}
		patch.Title = &title
	}

	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			return nil, "Completed must be a boolean"
		}
		patch.Completed = &completed
	}

	if v, ok := raw["location"]; ok {
		patch.LocationSet = true
		if !bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			var loc dto.LocationInput
			if err := json.Unmarshal(v, &loc); err != nil || !loc.Complete() {
				return nil, "Location must include latitude and longitude"
			}
			patch.Location = &dto.Location{Latitude: *loc.Latitude, Longitude: *loc.Longitude}
		}
	}

	if v, ok := raw["photoUri"]; ok {
		patch.PhotoSet = true
		if !bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			var uri string
			if err := json.Unmarshal(v, &uri); err != nil {
				return nil, "PhotoUri must be a string"
			}
			patch.PhotoURI = &uri
		}
	}

	return patch, ""
}
