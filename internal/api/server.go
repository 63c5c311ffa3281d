// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/common/observability"
	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/workflows/contacts"
	"recruiting-backoffice/internal/workflows/intake"
	"recruiting-backoffice/internal/workflows/posting"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JobSearcher runs the keyword search over active postings.
type JobSearcher interface {
	Search(ctx context.Context, keywords string, size int) ([]*models.Job, error)
}

// ResumeSigner hands out presigned object-storage URLs for resumes.
type ResumeSigner interface {
	PresignUpload(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// NotificationFeed is the activity-feed slice of the store.
type NotificationFeed interface {
	List(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Server routes HTTP requests to the workflows.
type Server struct {
	intake        *intake.Workflow
	posting       *posting.Workflow
	contacts      *contacts.Workflow
	directory     UserDirectory
	search        JobSearcher
	feed          NotificationFeed
	resumes       ResumeSigner
	presignExpiry time.Duration
	errors        *stderrors.ErrorHandler
	obs           *observability.Observability
	logger        logger.Logger
}

// Options carries the server's collaborators.
type Options struct {
	Intake        *intake.Workflow
	Posting       *posting.Workflow
	Contacts      *contacts.Workflow
	Directory     UserDirectory
	Search        JobSearcher
	Feed          NotificationFeed
	Resumes       ResumeSigner
	PresignExpiry time.Duration
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewServer(opts Options) *Server {
	return &Server{
		intake:        opts.Intake,
		posting:       opts.Posting,
		contacts:      opts.Contacts,
		directory:     opts.Directory,
		search:        opts.Search,
		feed:          opts.Feed,
		resumes:       opts.Resumes,
		presignExpiry: opts.PresignExpiry,
		errors:        stderrors.NewErrorHandler(opts.Logger),
		obs:           opts.Observability,
		logger:        opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /applications", s.instrument("/applications", s.handleListApplications))
	mux.HandleFunc("POST /applications", s.instrument("/applications", s.handleSubmitApplication))
	mux.HandleFunc("GET /applications/{id}", s.instrument("/applications/{id}", s.handleGetApplication))
	mux.HandleFunc("PUT /applications/{id}", s.instrument("/applications/{id}", s.handleUpdateApplication))
	mux.HandleFunc("POST /bench-profiles", s.instrument("/bench-profiles", s.handleCreateBenchProfile))

	mux.HandleFunc("GET /jobs", s.instrument("/jobs", s.handleListJobs))
	mux.HandleFunc("POST /jobs", s.instrument("/jobs", s.handleCreateJob))
	mux.HandleFunc("GET /jobs/search", s.instrument("/jobs/search", s.handleSearchJobs))
	mux.HandleFunc("GET /jobs/{id}", s.instrument("/jobs/{id}", s.handleGetJob))
	mux.HandleFunc("PUT /jobs/{id}", s.instrument("/jobs/{id}", s.handleUpdateJob))
	mux.HandleFunc("DELETE /jobs/{id}", s.instrument("/jobs/{id}", s.handleDeleteJob))

	mux.HandleFunc("GET /contacts", s.instrument("/contacts", s.handleListContacts))
	mux.HandleFunc("POST /contacts", s.instrument("/contacts", s.handleSubmitContact))
	mux.HandleFunc("PUT /contacts/{id}", s.instrument("/contacts/{id}", s.handleUpdateContact))
	mux.HandleFunc("DELETE /contacts/{id}", s.instrument("/contacts/{id}", s.handleDeleteContact))

	mux.HandleFunc("GET /users", s.instrument("/users", s.handleListUsers))
	mux.HandleFunc("GET /users/{id}", s.instrument("/users/{id}", s.handleGetUser))
	mux.HandleFunc("PATCH /users/{id}", s.instrument("/users/{id}", s.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{id}", s.instrument("/users/{id}", s.handleDeleteUser))

	mux.HandleFunc("GET /notifications", s.instrument("/notifications", s.handleListNotifications))
	mux.HandleFunc("POST /notifications/{id}/read", s.instrument("/notifications/{id}/read", s.handleMarkNotificationRead))

	mux.HandleFunc("POST /resumes", s.instrument("/resumes", s.handleCreateResumeUpload))
	mux.HandleFunc("GET /resumes/{id}", s.instrument("/resumes/{id}", s.handleGetResumeDownload))

	return mux
}

// instrument wraps a handler with the request counter and duration
// histogram, keyed by the route pattern rather than the raw path.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), route, r.Method, recorder.status)
			s.obs.RecordRequestDuration(r.Context(), route, time.Since(start))
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", map[string]interface{}{"error": err})
	}
}

// decodeJSON reads the request body into dst, translating malformed
// payloads to a validation error.
func (s *Server) decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return stderrors.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
