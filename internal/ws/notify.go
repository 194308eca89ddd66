package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

type SessionChangedEvent struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

type JobPostedEvent struct {
	Type       string `json:"type"`
	JobID      string `json:"job_id"`
	EmployerID string `json:"employer_id"`
	Timestamp  string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifySessionChanged pushes a session transition (signed_in, signed_up,
// signed_out) to every subscriber.
func NotifySessionChanged(event, userID string) {
	h := defaultHub.Load()
	if h == nil || event == "" || userID == "" {
		return
	}

	b, err := json.Marshal(SessionChangedEvent{
		Type:      "session_changed",
		Event:     event,
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Broadcast(b)
}

func NotifyJobPosted(jobID, employerID string) {
	h := defaultHub.Load()
	if h == nil || jobID == "" {
		return
	}

	b, err := json.Marshal(JobPostedEvent{
		Type:       "job_posted",
		JobID:      jobID,
		EmployerID: employerID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Broadcast(b)
}
