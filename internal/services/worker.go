package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// Worker runs profile extraction off the request path: uploads enqueue the
// interview ID, workers pull from the queue, and a poller picks up anything
// still queued (e.g. after a crash).
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueExtraction(interviewID uuid.UUID)
}

type worker struct {
	memoryRepo  repositories.MemoryRepository
	extractor   ExtractorService
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(
	memoryRepo repositories.MemoryRepository,
	extractor ExtractorService,
	concurrency int,
) Worker {
	return &worker{
		memoryRepo:  memoryRepo,
		extractor:   extractor,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting extraction worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingExtractions(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping extraction worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Extraction worker stopped")
}

// EnqueueExtraction implements Worker.
func (w *worker) EnqueueExtraction(interviewID uuid.UUID) {
	select {
	case w.jobQueue <- interviewID:
		log.Printf("📥 Extraction job for interview %s enqueued\n", interviewID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue extraction for %s\n", interviewID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case interviewID := <-w.jobQueue:
			log.Printf("👷 Worker #%d extracting profile for interview %s\n", workerID, interviewID)

			memory, err := w.memoryRepo.FindByInterview(interviewID)
			if err != nil {
				log.Printf("❌ Worker #%d could not load memory for %s: %v\n", workerID, interviewID, err)
				continue
			}

			if err := w.extractor.ExtractProfile(ctx, memory); err != nil {
				log.Printf("❌ Worker #%d failed extraction for %s: %v\n", workerID, interviewID, err)
			} else {
				log.Printf("✅ Worker #%d completed extraction for %s\n", workerID, interviewID)
			}
		}
	}
}

func (w *worker) pollPendingExtractions(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending extraction poller stopped")
			return
		case <-ticker.C:
			pending, err := w.memoryRepo.FindPendingExtractions(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending extractions: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending extractions\n", len(pending))
			}

			for _, memory := range pending {
				w.EnqueueExtraction(memory.InterviewID)
			}
		}
	}
}
