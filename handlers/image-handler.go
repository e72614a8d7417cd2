package handler

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/tejakonduru/caption-serve/caption"
	"github.com/tejakonduru/caption-serve/logger"
	"github.com/tejakonduru/caption-serve/middleware"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/store"
	"github.com/tejakonduru/caption-serve/uploads"
)

// MaxUploadSize is the upload limit enforced before anything is persisted.
const MaxUploadSize = 10 << 20 // 10MB

// ImageHandler orchestrates the upload/caption/persist flow and the history
// endpoints. Every dependency is injected.
type ImageHandler struct {
	store    store.Store
	files    *uploads.Store
	captions caption.Generator
}

func NewImageHandler(st store.Store, files *uploads.Store, captions caption.Generator) *ImageHandler {
	return &ImageHandler{store: st, files: files, captions: captions}
}

// Upload accepts one image file, stores it, creates the row, generates the
// caption triple and returns the updated image.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No image file provided",
			"data":    nil,
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Only image files are allowed",
			"data":    nil,
		})
	}

	if file.Size > MaxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "File too large (max 10MB)",
			"data":    nil,
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error opening the file",
			"data":    nil,
		})
	}
	defer src.Close()

	filename, err := h.files.Save(src, file.Filename)
	if err != nil {
		logger.Log.Errorw("file save failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload image",
			"data":    nil,
		})
	}

	image := models.Image{
		UserID:       user.ID,
		Filename:     filename,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		FileSize:     file.Size,
		ImageURL:     "/uploads/" + filename,
	}

	if err := h.store.CreateImage(c.Context(), &image); err != nil {
		logger.Log.Errorw("image create failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload image",
			"data":    nil,
		})
	}

	if _, err := h.files.WriteThumbnail(filename); err != nil {
		// The full image still serves the grid if the thumbnail is missing.
		logger.Log.Warnw("thumbnail failed", "filename", filename, "error", err)
	}

	data, err := h.files.Read(filename)
	if err != nil {
		logger.Log.Errorw("file read failed", "filename", filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload image",
			"data":    nil,
		})
	}

	captions := h.captions.Generate(c.Context(), data, mimeType)

	updated, err := h.store.UpdateImageCaptions(c.Context(), image.ID, captions)
	if err != nil {
		logger.Log.Errorw("caption update failed", "imageId", image.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload image",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Successfully uploaded the file",
		"data":    updated,
	})
}

// List returns the requester's images, newest first.
func (h *ImageHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	images, err := h.store.ImagesByUser(c.Context(), user.ID)
	if err != nil {
		logger.Log.Errorw("image list failed", "userId", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch images",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Images fetched",
		"data":    images,
	})
}

// Get returns one image after the ownership check.
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	image, errResp := h.ownedImage(c)
	if errResp != nil {
		return errResp(c)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Image found",
		"data":    image,
	})
}

// Delete removes the backing file (and thumbnail), then the row.
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	image, errResp := h.ownedImage(c)
	if errResp != nil {
		return errResp(c)
	}

	if err := h.files.Remove(image.Filename); err != nil {
		logger.Log.Errorw("file delete failed", "filename", image.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete image",
			"data":    nil,
		})
	}
	if err := h.files.Remove(uploads.ThumbnailName(image.Filename)); err != nil {
		logger.Log.Warnw("thumbnail delete failed", "filename", image.Filename, "error", err)
	}

	deleted, err := h.store.DeleteImage(c.Context(), image.ID)
	if err != nil || !deleted {
		logger.Log.Errorw("image delete failed", "imageId", image.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete image",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Image deleted successfully",
		"data":    nil,
	})
}

// Download streams the caption triple as a text file attachment.
func (h *ImageHandler) Download(c *fiber.Ctx) error {
	image, errResp := h.ownedImage(c)
	if errResp != nil {
		return errResp(c)
	}

	content := fmt.Sprintf("Image: %s\nUploaded: %s\n\nEnglish:\n%s\n\nTelugu:\n%s\n\nHindi:\n%s",
		image.OriginalName,
		image.CreatedAt.Format("1/2/2006, 3:04:05 PM"),
		captionText(image.CaptionEnglish),
		captionText(image.CaptionTelugu),
		captionText(image.CaptionHindi),
	)

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachmentDisposition("captions-"+image.OriginalName+".txt"))
	return c.SendString(content)
}

// attachmentDisposition builds a Content-Disposition value that survives
// non-ASCII original names: an ASCII fallback plus an RFC 5987 filename*.
func attachmentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)

	if ascii == filename {
		return fmt.Sprintf(`attachment; filename="%s"`, ascii)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(filename))
}

// ownedImage loads the image for the :id param and runs the ownership check.
// 404 for an unknown id comes before 403 for a foreign one.
func (h *ImageHandler) ownedImage(c *fiber.Ctx) (*models.Image, func(*fiber.Ctx) error) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Authentication required",
				"data":    nil,
			})
		}
	}

	id := c.Params("id")
	image, err := h.store.ImageByID(c.Context(), id)
	if err != nil {
		logger.Log.Errorw("image fetch failed", "imageId", id, "error", err)
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to fetch image",
				"data":    nil,
			})
		}
	}
	if image == nil {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Image not found",
				"data":    nil,
			})
		}
	}
	if image.UserID != user.ID {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "error",
				"message": "Access denied",
				"data":    nil,
			})
		}
	}

	return image, nil
}

func captionText(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
