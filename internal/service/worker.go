package service

import (
	"log"
	"time"

	"github.com/bmadison/classwrap/internal/recap"
)

const workerPollInterval = 2 * time.Second

// Worker drains the job queue: claim the oldest queued job, build its
// record, store the outcome. One worker per process is enough; the claim
// guard in the store keeps extras harmless.
type Worker struct {
	store *Store
	now   func() time.Time
	stop  chan struct{}
	done  chan struct{}
}

func NewWorker(store *Store) *Worker {
	return &Worker{
		store: store,
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start runs the claim loop in the background until Stop.
func (w *Worker) Start() {
	go w.run()
}

// Stop halts the loop and waits for the job in flight to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	ticker := time.NewTicker(workerPollInterval)
	defer ticker.Stop()
	for {
		for {
			found, err := w.ProcessNext()
			if err != nil {
				log.Printf("Claim failed: %v", err)
				break
			}
			if !found {
				break
			}
		}
		select {
		case <-w.stop:
			return
		case <-ticker.C:
		}
	}
}

// ProcessNext claims and processes one job, reporting whether one was queued.
func (w *Worker) ProcessNext() (bool, error) {
	claimed, err := w.store.ClaimNext()
	if err != nil {
		return false, err
	}
	if claimed == nil {
		return false, nil
	}

	log.Printf("Processing job %s", claimed.ID)
	if err := claimed.Request.Validate(); err != nil {
		log.Printf("Job %s failed: %v", claimed.ID, err)
		if err := w.store.SaveError(claimed.ID, err); err != nil {
			return true, err
		}
		return true, nil
	}

	rec := recap.BuildRecord(claimed.Request, w.now())
	if err := w.store.SaveResult(claimed.ID, rec); err != nil {
		log.Printf("Job %s failed: %v", claimed.ID, err)
		return true, err
	}
	// TODO: mail the finished recap link once an outbound mail hookup exists.
	return true, nil
}
