package notify

import (
	"context"
	"errors"
	"log"
	"sync"

	"go.uber.org/ratelimit"
)

var ErrQueueFull = errors.New("email queue is full")

type EmailJob struct {
	Event   Event
	To      string
	Name    string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, job EmailJob) error
}

// EmailWorkerPool drains queued jobs through a shared rate limiter.
type EmailWorkerPool struct {
	jobs    chan EmailJob
	size    int
	sender  Sender
	limiter ratelimit.Limiter
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewEmailWorkerPool(size, queue, perSecond int, sender Sender) *EmailWorkerPool {
	if size < 1 {
		size = 1
	}
	if queue < size {
		queue = size
	}
	limiter := ratelimit.NewUnlimited()
	if perSecond > 0 {
		limiter = ratelimit.New(perSecond)
	}
	return &EmailWorkerPool{
		jobs:    make(chan EmailJob, queue),
		size:    size,
		sender:  sender,
		limiter: limiter,
		quit:    make(chan struct{}),
	}
}

func (pool *EmailWorkerPool) Start() {
	for id := 0; id < pool.size; id++ {
		log.Printf("Email worker with %d started!\n", id)
		pool.wg.Add(1)
		go pool.work(id)
	}
}

// Stop drains queued jobs and waits for workers to exit.
func (pool *EmailWorkerPool) Stop() {
	pool.once.Do(func() { close(pool.quit) })
	pool.wg.Wait()
}

// Enqueue never blocks; a full queue is reported to the caller.
func (pool *EmailWorkerPool) Enqueue(job EmailJob) error {
	select {
	case pool.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (pool *EmailWorkerPool) work(id int) {
	defer pool.wg.Done()
	for {
		select {
		case job := <-pool.jobs:
			pool.send(job)
		case <-pool.quit:
			for {
				select {
				case job := <-pool.jobs:
					pool.send(job)
				default:
					log.Printf("Email worker with %d stopped!!\n", id)
					return
				}
			}
		}
	}
}

func (pool *EmailWorkerPool) send(job EmailJob) {
	pool.limiter.Take()
	if err := pool.sender.Send(context.Background(), job); err != nil {
		log.Printf("ERROR: email %s to %s failed - %v", job.Event, job.To, err)
		return
	}
	log.Printf("CeylonHomesEmail: sent %s email to %s", job.Event, job.To)
}
