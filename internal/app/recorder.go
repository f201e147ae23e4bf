package app

import (
	"context"
	"log/slog"

	"careeradvisor/internal/util"
	"careeradvisor/pkg/domain"
	"careeradvisor/pkg/store"
)

const defaultRecorderQueue = 64

type auditJob struct {
	userText  string
	set       domain.RecommendationSet
	requestID string
}

// Recorder persists request/response pairs off the request path. The write
// is best-effort: a failed or dropped write is logged and never surfaces to
// the caller, so response latency stays independent of storage health.
type Recorder struct {
	store store.Store
	jobs  chan auditJob
	done  chan struct{}
}

// NewRecorder starts the background worker with a bounded queue.
func NewRecorder(s store.Store, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = defaultRecorderQueue
	}
	r := &Recorder{
		store: s,
		jobs:  make(chan auditJob, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues a write without blocking. When the queue is full the
// record is dropped with a log line.
func (r *Recorder) Record(ctx context.Context, userText string, set domain.RecommendationSet) {
	job := auditJob{userText: userText, set: set, requestID: util.RequestIDFromContext(ctx)}
	select {
	case r.jobs <- job:
	default:
		slog.Warn("audit queue full, dropping record", "request_id", job.requestID)
	}
}

// Close stops accepting writes, drains the queue, and waits for the worker.
func (r *Recorder) Close() {
	close(r.jobs)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for job := range r.jobs {
		if _, err := r.store.SaveRecommendation(job.userText, job.set); err != nil {
			slog.Error("audit write failed", "err", err, "request_id", job.requestID)
		}
	}
}
