package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrioja/geotodo-backend/internal/auth"
	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/models"
	"github.com/mrioja/geotodo-backend/internal/storage"
)

// ErrTodoNotFound covers both a missing id and a cross-owner lookup; the
// two are deliberately indistinguishable.
var ErrTodoNotFound = errors.New("todo not found")

// TodoInput carries the validated fields shared by create and replace.
type TodoInput struct {
	Title     string
	Completed bool
	Location  *dto.Location
	PhotoURI  *string
}

// TodoPatch carries only the fields present in a PATCH body. The Set
// flags distinguish an absent field from an explicit null: null clears
// the location or photo, absent leaves it untouched.
type TodoPatch struct {
	Title       *string
	Completed   *bool
	Location    *dto.Location
	LocationSet bool
	PhotoURI    *string
	PhotoSet    bool
}

type TodoService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewTodoService(db *gorm.DB, store storage.ObjectStore) *TodoService {
	return &TodoService{db: db, store: store}
}

// List returns the user's todos, newest first.
func (s *TodoService) List(userID uuid.UUID) ([]models.Todo, error) {
	var todos []models.Todo
	err := s.db.Scopes(auth.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) Get(userID, id uuid.UUID) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.Scopes(auth.OwnedBy(userID)).First(&todo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todo: %w", err)
	}
	return &todo, nil
}

func (s *TodoService) Create(userID uuid.UUID, in *TodoInput) (*models.Todo, error) {
	todo := models.Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     in.Title,
		Completed: in.Completed,
		PhotoURI:  in.PhotoURI,
	}
	if in.Location != nil {
		todo.Latitude = &in.Location.Latitude
		todo.Longitude = &in.Location.Longitude
	}

	if err := s.db.Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return &todo, nil
}

// Replace overwrites the full field set. When the photo reference changes,
// the previously stored blob is cleaned up best-effort.
func (s *TodoService) Replace(userID, id uuid.UUID, in *TodoInput) (*models.Todo, error) {
	todo, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if photoChanged(todo.PhotoURI, in.PhotoURI) {
		s.removePhoto(*todo.PhotoURI)
	}

	todo.Title = in.Title
	todo.Completed = in.Completed
	todo.PhotoURI = in.PhotoURI
	todo.Latitude = nil
	todo.Longitude = nil
	if in.Location != nil {
		todo.Latitude = &in.Location.Latitude
		todo.Longitude = &in.Location.Longitude
	}

	if err := s.db.Save(todo).Error; err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// Patch applies only the supplied fields.
func (s *TodoService) Patch(userID, id uuid.UUID, patch *TodoPatch) (*models.Todo, error) {
	todo, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if patch.PhotoSet && photoChanged(todo.PhotoURI, patch.PhotoURI) {
		s.removePhoto(*todo.PhotoURI)
	}

	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	if patch.LocationSet {
		todo.Latitude = nil
		todo.Longitude = nil
		if patch.Location != nil {
			todo.Latitude = &patch.Location.Latitude
			todo.Longitude = &patch.Location.Longitude
		}
	}
	if patch.PhotoSet {
		todo.PhotoURI = patch.PhotoURI
	}

	if err := s.db.Save(todo).Error; err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// Delete removes the row and, when a photo reference exists, the
// referenced blob. Returns the deleted todo.
func (s *TodoService) Delete(userID, id uuid.UUID) (*models.Todo, error) {
	todo, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if todo.PhotoURI != nil {
		s.removePhoto(*todo.PhotoURI)
	}

	err = s.db.Scopes(auth.OwnedBy(userID)).Delete(&models.Todo{}, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}
	return todo, nil
}

func photoChanged(current, next *string) bool {
	if current == nil {
		return false
	}
	return next == nil || *current != *next
}

// removePhoto deletes the blob behind a photo reference. Best-effort: an
// unextractable reference is skipped and a store failure only logs. The
// background context keeps cleanup alive past a client disconnect.
func (s *TodoService) removePhoto(uri string) {
	key, ok := storage.KeyFromURI(uri)
	if !ok {
		return
	}
	if err := s.store.Delete(context.Background(), key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		slog.Warn("failed to delete photo from object store", "key", key, "error", err)
	}
}
