package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PurgeInput is the input for the photo file purge workflow.
type PurgeInput struct {
	Files []string
}

// PurgeResult reports which files could not be removed.
type PurgeResult struct {
	Removed int
	Failed  []string
}

// PurgePhotoFilesWorkflow removes the stored files of deleted photos. Each
// file is deleted by its own activity so one stubborn file does not hold
// back the others.
func PurgePhotoFilesWorkflow(ctx workflow.Context, input PurgeInput) (PurgeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting photo file purge", "files", len(input.Files))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	futures := make([]workflow.Future, len(input.Files))
	for i, name := range input.Files {
		futures[i] = workflow.ExecuteActivity(ctx, DeletePhotoFileActivity, name)
	}

	var res PurgeResult
	for i, f := range futures {
		if err := f.Get(ctx, nil); err != nil {
			logger.Warn("photo file not purged", "file", input.Files[i], "error", err)
			res.Failed = append(res.Failed, input.Files[i])
			continue
		}
		res.Removed++
	}

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%d of %d photo files not purged", len(res.Failed), len(input.Files))
	}
	logger.Info("Photo files purged", "removed", res.Removed)
	return res, nil
}
