// Package queue carries republishing jobs over NATS JetStream.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jjenkins/whitehall/internal/service"
)

// ErrInvalidJob is returned for jobs that can never succeed
var ErrInvalidJob = errors.New("invalid republish job")

// Job asks a worker to republish one document
type Job struct {
	DocumentID     int64  `json:"document_id"`
	UpdateType     string `json:"update_type,omitempty"`
	BulkPublishing bool   `json:"bulk_publishing,omitempty"`
	AllowDraft     bool   `json:"allow_draft,omitempty"`
}

// NewJob builds a job from republish options
func NewJob(documentID int64, opts service.Options) Job {
	return Job{
		DocumentID:     documentID,
		UpdateType:     opts.UpdateType,
		BulkPublishing: opts.BulkPublishing,
		AllowDraft:     opts.AllowDraft,
	}
}

// Validate rejects jobs without a usable document id
func (j Job) Validate() error {
	if j.DocumentID <= 0 {
		return fmt.Errorf("%w: document_id must be positive, got %d", ErrInvalidJob, j.DocumentID)
	}
	return nil
}

// Options returns the republish options carried by the job
func (j Job) Options() service.Options {
	return service.Options{
		UpdateType:     j.UpdateType,
		BulkPublishing: j.BulkPublishing,
		AllowDraft:     j.AllowDraft,
	}
}

func decodeJob(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}
