package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mrioja/geotodo-backend/internal/auth"
	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/storage"
)

const maxImageSize = 10 * 1024 * 1024

type ImageHandler struct {
	store storage.ObjectStore
}

func NewImageHandler(store storage.ObjectStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// Upload handles POST /images - stores a multipart image under
// {userId}/{generatedId}{ext} and returns its public URL.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Image file is required"))
	}

	if file.Size > maxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Image size must be less than 10MB"))
	}

	// Declared content-type only; no byte-level sniffing.
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("File must be an image"))
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New(), ext)

	src, err := file.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to upload image"))
	}
	defer src.Close()

	if err := h.store.Put(c.UserContext(), key, src, file.Size, contentType); err != nil {
		slog.Error("failed to store image", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to upload image"))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(dto.ImageUploadData{
		URL:         "/images/" + key,
		Key:         key,
		Size:        file.Size,
		ContentType: contentType,
	}))
}

// Fetch handles GET /images/:userId/:imageId - streams the blob back with
// its content type, a long-lived cache directive, and an entity tag.
func (h *ImageHandler) Fetch(c *fiber.Ctx) error {
	key := c.Params("userId") + "/" + c.Params("imageId")

	obj, err := h.store.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Image not found"))
		}
		slog.Error("failed to fetch image", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch image"))
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	c.Set(fiber.HeaderETag, obj.ETag)

	return c.SendStream(obj.Body, int(obj.Size))
}

// Delete handles DELETE /images/:userId/:imageId - only the owner named
// in the path may delete, and the key must exist.
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	ownerID := c.Params("userId")
	if !auth.Owns(userID, ownerID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("You do not have permission to delete this image"))
	}

	key := ownerID + "/" + c.Params("imageId")

	if _, err := h.store.Stat(c.UserContext(), key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Image not found"))
		}
		slog.Error("failed to check image", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete image"))
	}

	if err := h.store.Delete(c.UserContext(), key); err != nil {
		slog.Error("failed to delete image", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete image"))
	}

	return c.JSON(dto.OK(dto.ImageDeleteData{Message: "Image deleted successfully"}))
}
