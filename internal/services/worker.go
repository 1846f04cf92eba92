package services

import (
	"context"
	"log"
	"sync"
)

// ExportWorker regenerates the export workbook in the background. Refresh
// requests that arrive while one is already pending are coalesced.
type ExportWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRefresh()
}

type exportWorker struct {
	exporter ExportService
	queue    chan struct{}
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	// done is signalled after each refresh attempt; nil outside tests.
	done chan<- error
}

func NewExportWorker(exporter ExportService) ExportWorker {
	return &exportWorker{
		exporter: exporter,
		queue:    make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// Start implements ExportWorker.
func (w *exportWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.processRefreshes(ctx)

	log.Println("✅ Export worker started")
}

// Stop implements ExportWorker.
func (w *exportWorker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping export worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Export worker stopped")
	})
}

// EnqueueRefresh implements ExportWorker. It never blocks.
func (w *exportWorker) EnqueueRefresh() {
	select {
	case <-w.stopChan:
		log.Println("⚠️  Export worker stopped, refresh dropped")
		return
	default:
	}

	select {
	case w.queue <- struct{}{}:
		log.Println("📥 Export refresh enqueued")
	default:
		// A refresh is already pending and will see the latest state.
	}
}

func (w *exportWorker) processRefreshes(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-w.queue:
			path, err := w.exporter.Generate()
			if err != nil {
				log.Printf("⚠️  Failed to regenerate export workbook: %v\n", err)
			} else {
				log.Printf("✅ Export workbook regenerated at %s\n", path)
			}
			if w.done != nil {
				w.done <- err
			}
		}
	}
}
