package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"blog-pipeline/internal/pipeline"
	"blog-pipeline/internal/post"
)

// Job asks a worker to run the pipeline for one blog post.
type Job struct {
	ID   uuid.UUID     `json:"id"`
	Post post.BlogPost `json:"post"`
}

// JobResult is the reply to a Job. Exactly one of Result and Error is set.
type JobResult struct {
	ID     uuid.UUID        `json:"id"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Handler runs one job.
type Handler func(context.Context, Job) (pipeline.Result, error)

// Queue exposes a minimal contract to consume pipeline jobs.
type Queue interface {
	Worker(ctx context.Context, handler Handler) error
	// Close releases the transport once workers have returned.
	Close() error
}

// Process decodes a raw job, runs handler and builds the reply.
func Process(ctx context.Context, data []byte, handler Handler) JobResult {
	var raw struct {
		ID   uuid.UUID       `json:"id"`
		Post json.RawMessage `json:"post"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return JobResult{Error: fmt.Sprintf("decode job: %v", err)}
	}
	job := Job{ID: raw.ID}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	p, err := post.Decode(raw.Post)
	if err != nil {
		return JobResult{ID: job.ID, Error: err.Error()}
	}
	job.Post = p
	if handler == nil {
		return JobResult{ID: job.ID, Error: "no handler"}
	}
	res, err := handler(ctx, job)
	if err != nil {
		return JobResult{ID: job.ID, Error: err.Error()}
	}
	return JobResult{ID: job.ID, Result: &res}
}
