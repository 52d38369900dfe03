package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/mux"

	"walletlink/internal/domain"
)

// maxResults bounds the retained sink history.
const maxResults = 64

const maxLinkBytes = 64 << 10

// Result is one sink invocation.
type Result struct {
	Kind    string    `json:"kind"` // "pairing" or "submission"
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// StatusView is the JSON form of domain.Status.
type StatusView struct {
	State       string  `json:"state"`
	Connected   bool    `json:"connected"`
	Fingerprint string  `json:"fingerprint,omitempty"`
	Pending     *uint64 `json:"pending,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server serves the bridge API for one wallet session.
type Server struct {
	wallet domain.Wallet
	inbox  chan<- string
	log    slog.Logger

	mu      sync.Mutex
	results []Result
}

// New returns a Server for wallet. Links posted to /v1/links are sent to
// inbox. New installs the session's result sinks.
func New(wallet domain.Wallet, inbox chan<- string, log slog.Logger) *Server {
	s := &Server{wallet: wallet, inbox: inbox, log: log}
	wallet.SetPairingResultHandler(func(approved bool) {
		s.record(Result{Kind: string(domain.OperationPairing), Success: approved})
	})
	wallet.SetSubmissionResultHandler(func(success bool, message string) {
		s.record(Result{Kind: string(domain.OperationSubmission), Success: success, Message: message})
	})
	return s
}

// NewRouter returns the HTTP handler.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "OK\n")
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/links", s.handleLink).Methods(http.MethodPost)
	v1.HandleFunc("/connect", s.handleConnect).Methods(http.MethodPost)
	v1.HandleFunc("/submissions/{value}", s.handleSubmit).Methods(http.MethodPost)
	v1.HandleFunc("/connection", s.handleDisconnect).Methods(http.MethodDelete)
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/results", s.handleResults).Methods(http.MethodGet)
	return r
}

// Results returns a copy of the recorded sink history.
func (s *Server) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxLinkBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	link := strings.TrimSpace(string(b))
	if link == "" {
		writeError(w, http.StatusBadRequest, errors.New("empty link"))
		return
	}
	select {
	case s.inbox <- link:
		w.WriteHeader(http.StatusAccepted)
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, r.Context().Err())
	}
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.Connect(r.Context()); err != nil {
		s.writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.status(r))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.ParseUint(mux.Vars(r)["value"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.wallet.Submit(r.Context(), value); err != nil {
		s.writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.status(r))
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.Disconnect(r.Context()); err != nil {
		s.writeWalletError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status(r))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Results())
}

func (s *Server) status(r *http.Request) StatusView {
	st := s.wallet.Status(r.Context())
	return StatusView{
		State:       st.State.String(),
		Connected:   st.Connected,
		Fingerprint: st.Fingerprint,
		Pending:     st.Pending,
	}
}

func (s *Server) record(res Result) {
	res.At = time.Now().UTC()
	s.mu.Lock()
	s.results = append(s.results, res)
	if len(s.results) > maxResults {
		s.results = s.results[len(s.results)-maxResults:]
	}
	s.mu.Unlock()
}

func (s *Server) writeWalletError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrTransportUnavailable) {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: domain.WalletUnavailableMessage})
		return
	}
	s.log.Warnf("Request failed: %v", err)
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorBody{Error: err.Error()})
}
