package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job JobDescriptor) error
}

type worker struct {
	processor   ProcessorService
	jobQueue    chan JobDescriptor
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(processor ProcessorService, concurrency, queueSize int) Worker {
	return &worker{
		processor:   processor,
		jobQueue:    make(chan JobDescriptor, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// Enqueue implements Worker. It never blocks the caller: a stopped worker or
// a full queue is reported as an error so the upload handler can fail the
// job instead of leaving it stuck in Uploaded.
func (w *worker) Enqueue(job JobDescriptor) error {
	select {
	case <-w.stopChan:
		return errors.New("worker is stopped")
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Job %s enqueued\n", job.JobID)
		return nil
	default:
		return fmt.Errorf("job queue is full (capacity %d)", cap(w.jobQueue))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, job.JobID)
			if err := w.processor.ProcessUpload(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, job.JobID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, job.JobID)
			}
		}
	}
}
