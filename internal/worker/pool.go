package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by SubmitJob when the job buffer has no room.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by SubmitJob after Stop.
	ErrStopped = errors.New("dispatcher is stopped")
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) error // The method that performs the actual work
	ID() string                        // A unique identifier for the job
}

// Worker is responsible for processing jobs.
// It runs in its own goroutine and receives jobs on a dedicated channel.
type Worker struct {
	ID         int
	WorkerPool chan chan Job // A pool of channels, used to register this worker's job channel
	JobChannel chan Job      // A channel specific to this worker, to receive jobs
	Quit       <-chan struct{}
	Wg         *sync.WaitGroup
	logger     *logrus.Logger
}

// NewWorker creates a new Worker.
func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, logger *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       quit,
		Wg:         wg,
		logger:     logger,
	}
}

// Start makes the Worker listen for jobs on its JobChannel. A job that is
// running when Quit closes is allowed to finish.
func (w Worker) Start(ctx context.Context) {
	w.Wg.Add(1)
	go func() {
		defer w.Wg.Done()
		for {
			// Register the current worker's JobChannel to the worker pool.
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.Quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(ctx, job)
			case <-w.Quit:
				w.logger.WithField("worker_id", w.ID).Debug("Worker stopping")
				return
			}
		}
	}()
}

func (w Worker) run(ctx context.Context, job Job) {
	entry := w.logger.WithFields(logrus.Fields{"worker_id": w.ID, "job_id": job.ID()})
	entry.Info("Started job")

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("Job panicked")
		}
	}()

	if err := job.Execute(ctx); err != nil {
		entry.WithError(err).Error("Error processing job")
		return
	}
	entry.Info("Finished job")
}

// Dispatcher manages a pool of workers and dispatches jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job // A pool of worker job channels
	JobQueue   chan Job      // A buffered channel for incoming jobs
	Workers    []Worker
	Wg         sync.WaitGroup

	quit    chan struct{}
	mu      sync.RWMutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *logrus.Logger
}

// NewDispatcher creates a new Dispatcher. Jobs run under a context that is
// independent of whoever submitted them.
func NewDispatcher(maxWorkers int, jobQueueSize int, logger *logrus.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		quit:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Run starts the dispatcher and its workers.
func (d *Dispatcher) Run() {
	d.logger.WithField("workers", d.MaxWorkers).Info("Dispatcher starting")
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, d.quit, &d.Wg, d.logger)
		d.Workers = append(d.Workers, worker)
		worker.Start(d.ctx)
	}

	d.Wg.Add(1)
	go d.dispatch()
}

// dispatch hands queued jobs to idle workers. While every worker is busy jobs
// stay in JobQueue, so the queue size bounds the backlog.
func (d *Dispatcher) dispatch() {
	defer d.Wg.Done()
	for {
		select {
		case job := <-d.JobQueue:
			select {
			case jobChannel := <-d.WorkerPool:
				select {
				case jobChannel <- job:
				case <-d.quit:
					d.logger.WithField("job_id", job.ID()).Warn("Dispatcher stopped before job could start")
					return
				}
			case <-d.quit:
				d.logger.WithField("job_id", job.ID()).Warn("Dispatcher stopped before job could start")
				return
			}
		case <-d.quit:
			return
		}
	}
}

// SubmitJob adds a job to the job queue without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}
	select {
	case d.JobQueue <- job:
		d.logger.WithField("job_id", job.ID()).Debug("Job submitted to queue")
		return nil
	default:
		d.logger.WithField("job_id", job.ID()).Warn("Job queue full, job rejected")
		return ErrQueueFull
	}
}

// Pending returns the number of jobs waiting for a worker.
func (d *Dispatcher) Pending() int {
	return len(d.JobQueue)
}

// Stop stops accepting jobs and waits for running jobs to finish or ctx to
// end, whichever comes first. When ctx ends first running jobs are cancelled.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.quit)
	d.mu.Unlock()

	d.logger.Info("Dispatcher: Initiating shutdown...")

	done := make(chan struct{})
	go func() {
		d.Wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
	}
	d.cancel()

	if n := len(d.JobQueue); n > 0 {
		d.logger.WithField("dropped", n).Warn("Dispatcher: Queued jobs dropped at shutdown")
	}
	d.logger.Info("Dispatcher: Shutdown complete.")
	return ctx.Err()
}
