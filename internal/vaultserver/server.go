package vaultserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"aura/internal/domain"
	"aura/internal/services/handoff"
)

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

// Server serves the vault API.
type Server struct {
	store     Store
	places    PlacesProvider
	log       *slog.Logger
	publicURL string
	validator *recordValidator
	now       func() time.Time
	started   time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithPlaces enables the provider lookup endpoints.
func WithPlaces(p PlacesProvider) Option { return func(s *Server) { s.places = p } }

// WithClock replaces the server clock.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New returns a Server. publicURL is the base of the join URLs handed to
// doctors and must be reachable from patients' devices.
func New(store Store, publicURL string, log *slog.Logger, opts ...Option) (*Server, error) {
	v, err := newRecordValidator()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		store:     store,
		log:       log,
		publicURL: strings.TrimRight(publicURL, "/"),
		validator: v,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.started = s.now()
	return s, nil
}

// Handler returns the routed API wrapped in the access log.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health/", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/vault/create-session/", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/vault/session/{session_id}/", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/vault/upload/{session_id}/", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/find_hospitals/", s.handleFind(domain.PlaceHospital)).Methods(http.MethodPost)
	api.HandleFunc("/find_doctors/", s.handleFind(domain.PlaceDoctor)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return s.accessLog(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health(r.Context()))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.DoctorName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "doctor_name is required")
		return
	}

	sess := domain.HandoffSession{
		SessionID:  domain.SessionID(uuid.NewString()),
		DoctorName: name,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreateSession(r.Context(), sess); err != nil {
		s.log.Error("create session", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.log.Info("session created", "session_id", sess.SessionID)

	writeJSON(w, http.StatusCreated, domain.CreateSessionResponse{
		SessionID:  sess.SessionID,
		QRURL:      handoff.JoinURL(s.publicURL, sess.SessionID),
		DoctorName: sess.DoctorName,
		CreatedAt:  sess.CreatedAt,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrSessionNotFound.Error())
		return
	}
	sess, err := s.store.GetSession(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("get session", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrSessionNotFound.Error())
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body too large")
		return
	}
	if err := s.validator.Validate(payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var rec domain.PatientRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec.ID = domain.RecordID(ulid.Make().String())
	if rec.Timestamp == "" {
		rec.Timestamp = s.now().UTC().Format(time.RFC3339)
	}
	err = s.store.AppendRecord(r.Context(), id, rec)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("append record", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store record")
		return
	}
	s.log.Info("record uploaded", "session_id", id, "record_id", rec.ID)
	writeJSON(w, http.StatusCreated, domain.UploadReceipt{ID: rec.ID, Status: "uploaded"})
}

func (s *Server) handleFind(kind domain.PlaceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.places == nil {
			writeError(w, http.StatusServiceUnavailable, "places lookup is not configured")
			return
		}
		var req struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
			Radius    int      `json:"radius"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Latitude == nil || req.Longitude == nil {
			writeError(w, http.StatusBadRequest, "Latitude and longitude are required")
			return
		}
		q := domain.PlacesQuery{Latitude: *req.Latitude, Longitude: *req.Longitude, Radius: req.Radius}
		if q.Radius <= 0 {
			q.Radius = domain.DefaultSearchRadius
		}

		places, next, err := s.places.Nearby(r.Context(), kind, q)
		if err != nil {
			s.log.Error("places lookup", "kind", kind, "err", err)
			writeError(w, http.StatusBadGateway, "failed to fetch "+string(kind)+" data")
			return
		}
		res := domain.PlacesResult{Count: len(places), NextPageToken: next}
		if kind == domain.PlaceHospital {
			res.Hospitals = places
		} else {
			res.Doctors = places
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// sessionID returns the path's session id if it is a UUID.
func sessionID(r *http.Request) (domain.SessionID, bool) {
	u, err := uuid.Parse(mux.Vars(r)["session_id"])
	if err != nil {
		return "", false
	}
	return domain.SessionID(u.String()), true
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(out); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
