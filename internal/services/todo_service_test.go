package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/services"
	"github.com/mrioja/geotodo-backend/internal/storage"
)

func newTodoService(t *testing.T) (*services.TodoService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return services.NewTodoService(newTestDB(t), store), store
}

func seedBlob(t *testing.T, store *storage.MemoryStore, key string) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), key, strings.NewReader("img"), 3, "image/jpeg"))
}

func strptr(s string) *string { return &s }

func TestGetScopesByOwner(t *testing.T) {
	svc, _ := newTodoService(t)
	owner := uuid.New()
	stranger := uuid.New()

	todo, err := svc.Create(owner, &services.TodoInput{Title: "t"})
	require.NoError(t, err)

	_, err = svc.Get(stranger, todo.ID)
	assert.ErrorIs(t, err, services.ErrTodoNotFound)

	got, err := svc.Get(owner, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, got.ID)
}

func TestReplaceCleansUpChangedPhoto(t *testing.T) {
	svc, store := newTodoService(t)
	owner := uuid.New()

	seedBlob(t, store, "u/old.jpg")
	todo, err := svc.Create(owner, &services.TodoInput{Title: "t", PhotoURI: strptr("/images/u/old.jpg")})
	require.NoError(t, err)

	_, err = svc.Replace(owner, todo.ID, &services.TodoInput{Title: "t", PhotoURI: strptr("/images/u/new.jpg")})
	require.NoError(t, err)
	assert.False(t, store.Has("u/old.jpg"))
}

func TestReplaceKeepsUnchangedPhoto(t *testing.T) {
	svc, store := newTodoService(t)
	owner := uuid.New()

	seedBlob(t, store, "u/same.jpg")
	todo, err := svc.Create(owner, &services.TodoInput{Title: "t", PhotoURI: strptr("/images/u/same.jpg")})
	require.NoError(t, err)

	_, err = svc.Replace(owner, todo.ID, &services.TodoInput{Title: "t2", PhotoURI: strptr("/images/u/same.jpg")})
	require.NoError(t, err)
	assert.True(t, store.Has("u/same.jpg"))
}

func TestPatchClearingPhotoDeletesBlob(t *testing.T) {
	svc, store := newTodoService(t)
	owner := uuid.New()

	seedBlob(t, store, "u/p.jpg")
	todo, err := svc.Create(owner, &services.TodoInput{Title: "t", PhotoURI: strptr("/images/u/p.jpg")})
	require.NoError(t, err)

	patched, err := svc.Patch(owner, todo.ID, &services.TodoPatch{PhotoSet: true})
	require.NoError(t, err)
	assert.Nil(t, patched.PhotoURI)
	assert.False(t, store.Has("u/p.jpg"))
}

func TestDeleteSkipsUnextractablePhotoReference(t *testing.T) {
	svc, store := newTodoService(t)
	owner := uuid.New()

	seedBlob(t, store, "u/p.jpg")
	todo, err := svc.Create(owner, &services.TodoInput{Title: "t", PhotoURI: strptr("not-a-reference")})
	require.NoError(t, err)

	// An unextractable reference is skipped, never fatal.
	_, err = svc.Delete(owner, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestDeleteIsScopedByOwner(t *testing.T) {
	svc, _ := newTodoService(t)
	owner := uuid.New()

	todo, err := svc.Create(owner, &services.TodoInput{Title: "t"})
	require.NoError(t, err)

	_, err = svc.Delete(uuid.New(), todo.ID)
	assert.ErrorIs(t, err, services.ErrTodoNotFound)

	_, err = svc.Get(owner, todo.ID)
	assert.NoError(t, err, "todo survives a foreign delete attempt")
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, _ := newTodoService(t)
	owner := uuid.New()

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(owner, &services.TodoInput{Title: title})
		require.NoError(t, err)
	}

	todos, err := svc.List(owner)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.False(t, todos[0].CreatedAt.Before(todos[1].CreatedAt))
	assert.False(t, todos[1].CreatedAt.Before(todos[2].CreatedAt))
}

func TestLocationRoundTrip(t *testing.T) {
	svc, _ := newTodoService(t)
	owner := uuid.New()

	todo, err := svc.Create(owner, &services.TodoInput{
		Title:    "t",
		Location: &dto.Location{Latitude: 59.3293, Longitude: 18.0686},
	})
	require.NoError(t, err)

	got, err := svc.Get(owner, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, 59.3293, *got.Latitude, 1e-9)
	assert.InDelta(t, 18.0686, *got.Longitude, 1e-9)
}
