package workflows

import (
	"context"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

// WorkflowStarter is the part of client.Client the janitor needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Janitor implements ports.FileJanitor by starting a purge workflow. It
// returns once the workflow is accepted; the worker removes the files.
type Janitor struct {
	temporal  WorkflowStarter
	taskQueue string
}

// NewJanitor creates a Janitor scheduling work on taskQueue.
func NewJanitor(c WorkflowStarter, taskQueue string) *Janitor {
	return &Janitor{temporal: c, taskQueue: taskQueue}
}

// Purge schedules removal of the named files.
func (j *Janitor) Purge(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	opts := client.StartWorkflowOptions{
		ID:        "purge-photo-files-" + uuid.NewString(),
		TaskQueue: j.taskQueue,
	}
	_, err := j.temporal.ExecuteWorkflow(ctx, opts, PurgePhotoFilesWorkflow, PurgeInput{Files: names})
	return err
}
