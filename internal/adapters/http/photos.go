package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// upload is an opened multipart file.
type upload struct {
	multipart.File
	name string
}

// openUpload opens the "file" form field. Errors are a
// *domain.ValidationError or wrap errPayloadTooLarge.
func openUpload(c *fiber.Ctx, maxBytes int64) (*upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
			return nil, errPayloadTooLarge
		}
		return nil, &domain.ValidationError{Field: "file", Reason: "is required"}
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", errPayloadTooLarge, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Reason: "is unreadable"}
	}
	return &upload{File: f, name: fh.Filename}, nil
}

// AttachPhotoHandler uploads a photo to a location. When the location has
// no coordinates yet, the photo geotag becomes its position.
func AttachPhotoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid location id")
		}
		f, err := openUpload(c, deps.MaxUploadBytes)
		if err != nil {
			return writeError(c, err)
		}
		defer f.Close()

		photo, loc, err := deps.Photos.Attach(c.UserContext(), id, f.name, f)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"photo":    photo,
			"location": loc,
		})
	}
}

// PhotoGeotagHandler reports the geotag embedded in a stored photo.
func PhotoGeotagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid photo id")
		}
		report, err := deps.Photos.Inspect(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(report)
	}
}

// ResetLocationHandler re-derives the owning location's coordinates from
// the photo, overwriting what is there.
func ResetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid photo id")
		}
		loc, err := deps.Photos.ResetLocation(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(loc)
	}
}

// DeletePhotoHandler removes a photo and its stored file.
func DeletePhotoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid photo id")
		}
		photo, err := deps.Photos.Delete(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(photo)
	}
}

// PhotoFileHandler serves a stored image. Stored names are unique, so the
// response may be cached for good.
func PhotoFileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		rc, err := deps.Photos.Open(c.UserContext(), name)
		if err != nil {
			return writeError(c, err)
		}
		if ext := filepath.Ext(name); ext != "" {
			c.Type(ext)
		} else {
			c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		}
		c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
		return c.SendStream(rc)
	}
}
