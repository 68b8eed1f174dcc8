package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/NiklavsD/Tikodea/internal/domain"
	"github.com/NiklavsD/Tikodea/internal/queue"
	"github.com/NiklavsD/Tikodea/internal/service"
)

// ErrShutdownTimeout is returned when workers don't stop within timeout.
var ErrShutdownTimeout = errors.New("worker pool shutdown timed out")

// Pool manages a pool of workers consuming video processing tasks from the
// submission queue. A task failure is job-level: the video record captures
// the error and the worker moves on to the next task.
type Pool struct {
	workers        int
	dequeueTimeout time.Duration
	queue          queue.Queue
	videoSvc       *service.VideoService
	logger         *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds worker pool configuration.
type Config struct {
	Workers        int
	DequeueTimeout time.Duration
}

// NewPool creates a new worker pool.
func NewPool(
	cfg Config,
	q queue.Queue,
	videoSvc *service.VideoService,
	logger *slog.Logger,
) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.DequeueTimeout <= 0 {
		cfg.DequeueTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:        cfg.Workers,
		dequeueTimeout: cfg.DequeueTimeout,
		queue:          q,
		videoSvc:       videoSvc,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start launches all workers.
func (p *Pool) Start() {
	p.logger.Info("starting worker pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop(timeout time.Duration) error {
	p.logger.Info("stopping worker pool")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully")
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With("worker_id", id)
	logger.Info("worker started")

	for {
		select {
		case <-p.ctx.Done():
			logger.Info("worker stopping")
			return
		default:
			p.processNextTask(logger)
		}
	}
}

func (p *Pool) processNextTask(logger *slog.Logger) {
	task, err := p.queue.Dequeue(p.ctx, p.dequeueTimeout)
	if err != nil {
		if !errors.Is(err, domain.ErrNoTasks) && p.ctx.Err() == nil {
			logger.Error("failed to dequeue task", "error", err)
			// Back off so a broken queue doesn't spin the worker.
			select {
			case <-p.ctx.Done():
			case <-time.After(p.dequeueTimeout):
			}
		}
		return
	}

	logger = logger.With("task_id", task.ID, "video_id", task.VideoID)
	logger.Info("processing task")

	if err := p.videoSvc.Process(p.ctx, domain.VideoID(task.VideoID)); err != nil {
		// Leave the task in flight so it is redelivered after a restart.
		logger.Error("task failed", "error", err)
		return
	}

	// Ack with a fresh context so a shutdown mid-ack doesn't strand a
	// finished task for redelivery.
	ackCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.queue.Ack(ackCtx, task); err != nil {
		logger.Error("failed to ack task", "error", err)
		return
	}

	logger.Info("task completed")
}
