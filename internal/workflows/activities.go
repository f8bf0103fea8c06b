package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/tripjournal/internal/adapters/filestore"
)

// DeletePhotoFileActivity is the registered name of PurgeActivities.DeletePhotoFile.
const DeletePhotoFileActivity = "DeletePhotoFile"

// ErrTypeInvalidFileName marks a purge failure that retrying cannot fix.
const ErrTypeInvalidFileName = "InvalidFileName"

// FileRemover deletes stored photo files. Removing a missing file succeeds.
type FileRemover interface {
	Delete(ctx context.Context, name string) error
}

// PurgeActivities holds the activity implementations for the purge workflow.
type PurgeActivities struct {
	Files FileRemover
}

// DeletePhotoFile removes one stored photo file.
func (a *PurgeActivities) DeletePhotoFile(ctx context.Context, name string) error {
	err := a.Files.Delete(ctx, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, filestore.ErrInvalidName):
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("delete %s", name), ErrTypeInvalidFileName, err)
	default:
		return fmt.Errorf("delete %s: %w", name, err)
	}
}
