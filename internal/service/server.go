package service

import (
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/export"
	"github.com/bmadison/classwrap/internal/recap"
)

const streamPollInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The viewer is a desktop app, not a browser page; origin checks do not
	// apply to it.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server exposes the recap API: submit a build, poll or stream its status,
// download the share images.
type Server struct {
	store  *Store
	router *mux.Router
}

func NewServer(store *Store) *Server {
	s := &Server{store: store}
	r := mux.NewRouter()
	r.HandleFunc("/api/recap", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/job/{id}", s.handleJob).Methods(http.MethodGet)
	r.HandleFunc("/api/job/{id}/stream", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/api/job/{id}/card.png", s.handleCard).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req recap.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job, err := s.store.CreateJob(&req)
	if err != nil {
		log.Printf("Queueing job failed: %v", err)
		http.Error(w, "failed to queue job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Job(mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Fetching job failed: %v", err)
		http.Error(w, "failed to fetch job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleStream pushes the job over a websocket on every status transition
// and closes after the terminal one.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.Job(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
		} else {
			log.Printf("Fetching job failed: %v", err)
			http.Error(w, "failed to fetch job", http.StatusInternalServerError)
		}
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	var last recap.Status
	for {
		job, err := s.store.Job(id)
		if err != nil {
			log.Printf("Stream fetch failed: %v", err)
			return
		}
		if job.Status != last {
			if err := conn.WriteJSON(job); err != nil {
				return
			}
			last = job.Status
		}
		if job.Status.Terminal() {
			deadline := time.Now().Add(time.Second)
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}

// handleCard renders the finished recap as a PNG: the 3x3 highlights
// composite by default, or one slide's card with ?slide={id}.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Job(mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Fetching job failed: %v", err)
		http.Error(w, "failed to fetch job", http.StatusInternalServerError)
		return
	}
	if job.Status != recap.StatusDone || job.Record == nil {
		http.Error(w, "job not finished", http.StatusConflict)
		return
	}

	sheet, err := deck.DefaultStyles()
	if err != nil {
		log.Printf("Loading styles failed: %v", err)
		http.Error(w, "failed to build deck", http.StatusInternalServerError)
		return
	}
	slides := deck.Build(sheet, job.Record, false)

	var img *image.RGBA
	if slideID := r.URL.Query().Get("slide"); slideID != "" {
		var target *deck.Slide
		for _, sl := range slides {
			if sl.ID == slideID {
				target = sl
				break
			}
		}
		if target == nil {
			http.Error(w, "slide not found", http.StatusNotFound)
			return
		}
		img, err = export.Card(target, export.DefaultCardSize)
	} else {
		img, err = export.Grid(slides, export.DefaultTileSize)
	}
	if err != nil {
		log.Printf("Rendering card failed: %v", err)
		http.Error(w, "failed to render card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("Encoding card failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encoding response failed: %v", err)
	}
}
