package main

import (
	"encoding/json"
	"net/http"

	"github.com/decred/slog"
	"github.com/gorilla/mux"

	"walletlink/internal/transport"
	"walletlink/internal/walletsim"
)

type server struct {
	wallet *walletsim.Wallet
	log    slog.Logger
}

func newServer(w *walletsim.Wallet, log slog.Logger) *server {
	return &server{wallet: w, log: log}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/open", s.handleOpen).Methods(http.MethodPost)
	r.HandleFunc("/submissions", s.handleSubmissions).Methods(http.MethodGet)
	r.HandleFunc("/reject", s.handleReject).Methods(http.MethodPut)
	return r
}

func (s *server) handleOpen(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req transport.OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cb, err := s.wallet.HandleURL(req.URL)
	if err != nil {
		s.log.Warnf("Refusing link: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Debugf("Answered with %s", cb)
	writeJSON(w, transport.OpenResponse{Callback: cb})
}

func (s *server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	subs := s.wallet.Submissions()
	if subs == nil {
		subs = []walletsim.Submission{}
	}
	writeJSON(w, subs)
}

func (s *server) handleReject(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var body struct {
		Reject bool `json:"reject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.wallet.SetReject(body.Reject)
	s.log.Infof("Reject mode: %t", body.Reject)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
