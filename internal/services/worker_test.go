package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	processed atomic.Int32
}

func (p *countingProcessor) ProcessUpload(ctx context.Context, job JobDescriptor) error {
	p.processed.Add(1)
	return nil
}

func testDescriptor() JobDescriptor {
	return JobDescriptor{
		JobID:        uuid.New(),
		ProjectID:    uuid.New(),
		StoredName:   "stored.png",
		StoragePath:  "/tmp/stored.png",
		OriginalName: "scan.png",
		FileSize:     128,
	}
}

func TestWorkerProcessesEnqueuedJobs(t *testing.T) {
	processor := &countingProcessor{}
	worker := NewWorker(processor, 2, 10)
	worker.Start(context.Background())
	defer worker.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, worker.Enqueue(testDescriptor()))
	}

	deadline := time.Now().Add(5 * time.Second)
	for processor.processed.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.EqualValues(t, 5, processor.processed.Load())
}

func TestEnqueueFullQueueReturnsError(t *testing.T) {
	// The worker is never started, so the first job fills the queue and
	// nothing ever drains it.
	worker := NewWorker(&countingProcessor{}, 1, 1)

	require.NoError(t, worker.Enqueue(testDescriptor()))

	err := worker.Enqueue(testDescriptor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestEnqueueAfterStopReturnsError(t *testing.T) {
	worker := NewWorker(&countingProcessor{}, 1, 10)
	worker.Start(context.Background())
	worker.Stop()

	err := worker.Enqueue(testDescriptor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")
}
