package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the Recorder.
type RecorderConfig struct {
	// Buffer is the size of the async write channel.
	// Default: 1000
	Buffer int

	// WriteTimeout bounds each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Buffer:       1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes audit records asynchronously so the validation path never
// blocks on storage. When the buffer is full, records are dropped and
// counted rather than applying backpressure.
type Recorder struct {
	storage Storage
	config  *RecorderConfig
	logger  *slog.Logger

	recordCh chan *Record
	dropped  atomic.Int64
	wg       sync.WaitGroup
	done     chan struct{}
}

// NewRecorder creates a recorder over the given storage and starts its
// writer goroutine. A nil config uses defaults.
func NewRecorder(storage Storage, config *RecorderConfig, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.Buffer <= 0 {
		config.Buffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:  storage,
		config:   config,
		logger:   logger,
		recordCh: make(chan *Record, config.Buffer),
		done:     make(chan struct{}),
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r
}

// Record queues one audit record. An empty ID and zero Time are filled in.
// Never blocks; returns false if the record was dropped because the buffer
// was full or the recorder closed.
func (r *Recorder) Record(rec *Record) bool {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	select {
	case r.recordCh <- rec:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Dropped returns how many records were dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.recordCh:
			r.write(rec)
		case <-r.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case rec := <-r.recordCh:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Save(ctx, rec); err != nil {
		r.logger.Error("failed to save audit record",
			"record_id", rec.ID,
			"user", rec.Username,
			"error", err,
		)
	}
}

// Close stops the writer after draining queued records. The underlying
// storage is not closed; the caller owns it.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}
