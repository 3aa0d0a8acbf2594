package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions configures buffering and batching of AsyncWriter.
type AsyncOptions struct {
	BufferSize     int           // events queued before Store falls back to a direct write
	BatchSize      int           // events per StoreBatch call
	BatchTimeout   time.Duration // max wait for a partial batch
	StorageTimeout time.Duration // per-batch storage deadline
}

// AsyncWriter groups concurrent Store calls into batches. Store still waits
// for its batch to be written and returns the storage error.
type AsyncWriter struct {
	storage   Storage
	batcher   BatchWriter
	eventChan chan pendingEvent
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	options   AsyncOptions
}

type pendingEvent struct {
	event  Event
	result chan error
}

// NewAsyncWriter wraps a storage that can write batches. Query calls go
// straight to the storage.
func NewAsyncWriter[S interface {
	Storage
	BatchWriter
}](storage S, opts AsyncOptions) *AsyncWriter {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		storage:   storage,
		batcher:   storage,
		eventChan: make(chan pendingEvent, opts.BufferSize),
		done:      make(chan struct{}),
		options:   opts,
	}
	aw.wg.Add(1)
	go aw.worker()
	return aw
}

func (aw *AsyncWriter) Store(ctx context.Context, event Event) error {
	result := make(chan error, 1)

	select {
	case <-aw.done:
		return ErrStorageNotAvailable
	default:
	}

	select {
	case aw.eventChan <- pendingEvent{event: event, result: result}:
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Buffer full: write through rather than drop the event.
		return aw.batcher.StoreBatch(ctx, []Event{event})
	}
}

func (aw *AsyncWriter) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	return aw.storage.Query(ctx, criteria)
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	events := make([]Event, 0, aw.options.BatchSize)
	results := make([]chan error, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(events) == 0 {
			return
		}
		// Detached from callers so one cancelled request cannot fail the batch.
		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		err := aw.batcher.StoreBatch(ctx, events)
		cancel()

		for _, ch := range results {
			ch <- err
		}
		clear(events)
		clear(results)
		events = events[:0]
		results = results[:0]
	}

	for {
		select {
		case p := <-aw.eventChan:
			events = append(events, p.event)
			results = append(results, p.result)
			if len(events) >= aw.options.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-aw.done:
			for {
				select {
				case p := <-aw.eventChan:
					events = append(events, p.event)
					results = append(results, p.result)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close flushes queued events. ctx bounds how long Close waits for the flush.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() { close(aw.done) })

	flushed := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
