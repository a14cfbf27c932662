package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/board"
	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/lead"
)

type ServerConfig struct {
	MaxBodyBytes int64
}

// Server is the HTTP boundary the dashboard UI consumes. There is no
// authentication layer; the board runs behind the shop's own network.
type Server struct {
	store      *board.Store
	advisories *AdvisoryHub
	cfg        ServerConfig
}

func NewServer(store *board.Store, advisories *AdvisoryHub) *Server {
	return NewServerWithConfig(store, advisories, ServerConfig{})
}

func NewServerWithConfig(store *board.Store, advisories *AdvisoryHub, cfg ServerConfig) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if advisories == nil {
		advisories = NewAdvisoryHub(0)
	}
	return &Server{store: store, advisories: advisories, cfg: cfg}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	correlationID := getCorrelationID(r)

	switch {
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	case r.URL.Path == "/v1/leads" && r.Method == http.MethodGet:
		s.handleListLeads(w, r)
		return
	case r.URL.Path == "/v1/leads" && r.Method == http.MethodPost:
		s.handleCreateLead(w, r, correlationID)
		return
	case r.URL.Path == "/v1/statuses" && r.Method == http.MethodGet:
		s.handleStatuses(w)
		return
	case r.URL.Path == "/v1/refresh" && r.Method == http.MethodPost:
		s.handleRefresh(w, r, correlationID)
		return
	case r.URL.Path == "/v1/advisories" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, advisoryFeed{Advisories: s.advisories.Recent()})
		return
	case r.URL.Path == "/v1/advisories/ws" && r.Method == http.MethodGet:
		s.handleAdvisoryStream(w, r)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "v1" && parts[1] == "leads" && parts[2] != "" {
		id := parts[2]
		switch {
		case len(parts) == 3 && r.Method == http.MethodDelete:
			s.handleArchive(w, id, correlationID)
			return
		case len(parts) == 4 && parts[3] == "status" && r.Method == http.MethodPatch:
			s.handleChangeStatus(w, r, id, correlationID)
			return
		case len(parts) == 4 && parts[3] == "star" && r.Method == http.MethodPost:
			s.handleToggleStar(w, id, correlationID)
			return
		case len(parts) == 4 && parts[3] == "notes" && r.Method == http.MethodPut:
			s.handleSaveNote(w, r, id, correlationID)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "route not found", correlationID)
}

type leadFeed struct {
	Leads    []lead.Lead `json:"leads"`
	Loading  bool        `json:"loading"`
	LoadedAt *time.Time  `json:"loadedAt,omitempty"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	correlationID := getCorrelationID(r)
	query := r.URL.Query().Get("q")
	leads := s.store.Search(query)

	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status, ok := lead.ParseStatus(rawStatus)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status", "unknown status: "+rawStatus, correlationID)
			return
		}
		filtered := make([]lead.Lead, 0, len(leads))
		for _, l := range leads {
			if l.Status == status {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}

	feed := leadFeed{Leads: leads, Loading: s.store.Loading()}
	if at := s.store.LoadedAt(); !at.IsZero() {
		feed.LoadedAt = &at
	}
	writeJSON(w, http.StatusOK, feed)
}

type createLeadRequest struct {
	Name    string  `json:"name"`
	Source  string  `json:"source"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request, correlationID string) {
	body, ok := s.readRequestBody(w, r, correlationID)
	if !ok {
		return
	}
	var req createLeadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", correlationID)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required", correlationID)
		return
	}
	created := s.store.AddLead(board.NewLead{
		Name:    req.Name,
		Source:  lead.ParseSource(req.Source),
		Phone:   req.Phone,
		Email:   req.Email,
		Subject: req.Subject,
		Value:   req.Value,
	})
	writeJSON(w, http.StatusCreated, created)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request, id, correlationID string) {
	body, ok := s.readRequestBody(w, r, correlationID)
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", correlationID)
		return
	}
	status, ok := lead.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown status: "+req.Status, correlationID)
		return
	}
	updated, err := s.store.ChangeStatus(id, status)
	if err != nil {
		s.writeStoreError(w, err, correlationID)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleToggleStar(w http.ResponseWriter, id, correlationID string) {
	updated, err := s.store.ToggleStar(id)
	if err != nil {
		s.writeStoreError(w, err, correlationID)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type saveNoteRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request, id, correlationID string) {
	body, ok := s.readRequestBody(w, r, correlationID)
	if !ok {
		return
	}
	var req saveNoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", correlationID)
		return
	}
	updated, err := s.store.SaveNote(id, req.Notes)
	if err != nil {
		s.writeStoreError(w, err, correlationID)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleArchive(w http.ResponseWriter, id, correlationID string) {
	if err := s.store.Archive(id); err != nil {
		s.writeStoreError(w, err, correlationID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived", "id": id})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, correlationID string) {
	leads, err := s.store.LoadAll(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "gateway_error", err.Error(), correlationID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": len(leads)})
}

type statusInfo struct {
	ID          lead.Status `json:"id"`
	RemoteLabel string      `json:"remoteLabel"`
	Progress    int         `json:"progress"`
}

func (s *Server) handleStatuses(w http.ResponseWriter) {
	statuses := lead.Statuses()
	out := make([]statusInfo, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, statusInfo{ID: st, RemoteLabel: st.RemoteLabel(), Progress: st.Progress()})
	}
	writeJSON(w, http.StatusOK, map[string][]statusInfo{"statuses": out})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, correlationID string) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), correlationID)
	case errors.Is(err, board.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error(), correlationID)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error(), correlationID)
	}
}

func (s *Server) readRequestBody(w http.ResponseWriter, r *http.Request, correlationID string) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "unable to read request body", correlationID)
		return nil, false
	}
	if int64(len(body)) > s.cfg.MaxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", correlationID)
		return nil, false
	}
	return body, true
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error         errorDetail `json:"error"`
	CorrelationID string      `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message, correlationID string) {
	writeJSON(w, status, errorBody{
		Error:         errorDetail{Code: code, Message: message},
		CorrelationID: correlationID,
	})
}

func getCorrelationID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Correlation-Id"))
}
