package services

import (
	"errors"
	"strings"

	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/storage"
	"coderr-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// validateInput runs the struct tags of a request DTO
func validateInput(input interface{}) error {
	if fields := validation.Struct(input); fields != nil {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// notFoundOr maps a missing row to a NotFoundError and passes other errors through
func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(resource)
	}
	return err
}

// uploadError turns a rejected upload into a field error
func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return domain.NewValidationError(field, "File is too large.")
	case errors.Is(err, storage.ErrFileType):
		return domain.NewValidationError(field, "Upload a valid image. Allowed: jpg, jpeg, png, gif, webp.")
	}
	return err
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// mediaURL renders a stored file reference. Absolute URLs supplied by
// clients are returned unchanged.
func mediaURL(store storage.Store, ref string) string {
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}
	return store.URL(ref)
}

// checkImageRef accepts a client supplied image reference: empty or an
// absolute http(s) URL. Store keys only ever come from uploads.
func checkImageRef(field, ref string) error {
	if ref == "" || isAbsoluteURL(ref) {
		return nil
	}
	return domain.NewValidationError(field, "Enter a valid http(s) URL or upload a file.")
}

// removeMedia deletes a file this service uploaded under dir. Client
// supplied URLs and keys outside dir are left alone.
func removeMedia(store storage.Store, dir, ref string) error {
	if ref == "" || isAbsoluteURL(ref) || !strings.HasPrefix(ref, dir+"/") {
		return nil
	}
	return store.Delete(ref)
}
