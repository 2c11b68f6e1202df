// Package recorder persists congestion samples off the request path.
package recorder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/observability"
	"solana-fee-advisor/internal/storage"
)

// Sink is a named destination for samples.
type Sink struct {
	Name  string
	Store storage.NetworkStatusStore
}

// Options contains configuration for creating a Recorder.
type Options struct {
	Sinks        []Sink
	BufferSize   int           // Default: 256
	WriteTimeout time.Duration // Default: 5s per sink write
	Logger       *zap.Logger
}

// Recorder accepts samples without blocking and writes them to every sink
// from a single background goroutine.
type Recorder struct {
	sinks        []Sink
	queue        chan *domain.NetworkStatusRecord
	writeTimeout time.Duration
	logger       *zap.Logger
}

// New creates a new Recorder. Call Run to start writing.
func New(opts Options) *Recorder {
	bufferSize := opts.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}

	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recorder{
		sinks:        opts.Sinks,
		queue:        make(chan *domain.NetworkStatusRecord, bufferSize),
		writeTimeout: writeTimeout,
		logger:       logger.Named("recorder"),
	}
}

// Record enqueues a sample. It never blocks: when the buffer is full the
// sample is dropped and false is returned.
func (r *Recorder) Record(rec *domain.NetworkStatusRecord) bool {
	if r == nil || rec == nil || len(r.sinks) == 0 {
		return false
	}

	select {
	case r.queue <- rec:
		observability.RecordSampleQueued()
		observability.UpdateRecorderBacklog(len(r.queue))
		return true
	default:
		observability.RecordSampleDropped()
		r.logger.Warn("buffer full, dropping sample", zap.Int64("timestamp_ms", rec.TimestampMs))
		return false
	}
}

// Run writes queued samples until ctx is cancelled, then flushes what is
// left in the buffer.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Info("recorder started",
		zap.Int("sinks", len(r.sinks)),
		zap.Int("buffer", cap(r.queue)),
		zap.Duration("write_timeout", r.writeTimeout),
	)

	for {
		select {
		case <-ctx.Done():
			r.flush()
			r.logger.Info("recorder stopped")
			return ctx.Err()
		case rec := <-r.queue:
			r.write(context.WithoutCancel(ctx), rec)
		}
	}
}

// flush drains the buffer after shutdown has begun.
func (r *Recorder) flush() {
	for {
		select {
		case rec := <-r.queue:
			r.write(context.Background(), rec)
		default:
			return
		}
	}
}

func (r *Recorder) write(parent context.Context, rec *domain.NetworkStatusRecord) {
	observability.UpdateRecorderBacklog(len(r.queue))

	for _, sink := range r.sinks {
		ctx, cancel := context.WithTimeout(parent, r.writeTimeout)
		err := sink.Store.Insert(ctx, rec)
		cancel()

		if err != nil {
			observability.RecordSinkError(sink.Name)
			r.logger.Warn("write sample",
				zap.String("sink", sink.Name),
				zap.Int64("timestamp_ms", rec.TimestampMs),
				zap.Error(err),
			)
		}
	}
}
