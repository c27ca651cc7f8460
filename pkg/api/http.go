// Package api provides the HTTP endpoints of the kin-sender service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeman/kin-sdk-go/pkg/channels"
	"github.com/beeman/kin-sdk-go/pkg/client"
	"github.com/beeman/kin-sdk-go/pkg/metrics"
	"github.com/beeman/kin-sdk-go/pkg/sender"
)

// maxBodyBytes caps request bodies; envelopes are small.
const maxBodyBytes = 1 << 20

// Server represents the HTTP API server.
type Server struct {
	addr    string
	sender  *sender.Sender
	pool    *channels.Pool // nil when channels are disabled
	baseFee int64
	logger  zerolog.Logger
	server  *http.Server
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, snd *sender.Sender, pool *channels.Pool, baseFee int64, logger zerolog.Logger) *Server {
	return &Server{
		addr:    addr,
		sender:  snd,
		pool:    pool,
		baseFee: baseFee,
		logger:  logger,
	}
}

// Start starts the HTTP server. It blocks until the server exits.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/payments", s.handlePayment)
	mux.HandleFunc("/v1/accounts", s.handleCreateAccount)
	mux.HandleFunc("/v1/whitelist", s.handleWhitelist)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info().Str("addr", s.addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"app_id": s.sender.AppID(),
	})
}

type paymentRequest struct {
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Memo        string `json:"memo"`
}

type createAccountRequest struct {
	Address         string `json:"address"`
	StartingBalance string `json:"starting_balance"`
	Memo            string `json:"memo"`
}

type transactionResponse struct {
	Hash string `json:"hash"`
}

type whitelistResponse struct {
	Envelope string `json:"envelope"`
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	defer s.observe("payments", time.Now())
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, "payments", http.StatusBadRequest, err)
		return
	}

	channel, release, err := s.borrowChannel(r.Context())
	if err != nil {
		s.writeError(w, "payments", http.StatusServiceUnavailable, err)
		return
	}
	defer release()

	builder, err := s.sender.BuildSendKin(r.Context(), req.Destination, req.Amount, s.baseFee, req.Memo, channel)
	if err != nil {
		s.writeError(w, "payments", statusFor(err), err)
		return
	}

	hash, err := s.sender.SubmitTransaction(r.Context(), builder)
	if err != nil {
		s.writeError(w, "payments", statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{Hash: hash})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	defer s.observe("accounts", time.Now())
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, "accounts", http.StatusBadRequest, err)
		return
	}

	channel, release, err := s.borrowChannel(r.Context())
	if err != nil {
		s.writeError(w, "accounts", http.StatusServiceUnavailable, err)
		return
	}
	defer release()

	builder, err := s.sender.BuildCreateAccount(r.Context(), req.Address, req.StartingBalance, s.baseFee, req.Memo, channel)
	if err != nil {
		s.writeError(w, "accounts", statusFor(err), err)
		return
	}

	hash, err := s.sender.SubmitTransaction(r.Context(), builder)
	if err != nil {
		s.writeError(w, "accounts", statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{Hash: hash})
}

func (s *Server) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	defer s.observe("whitelist", time.Now())
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, "whitelist", http.StatusBadRequest, err)
		return
	}

	envelope, err := s.sender.WhitelistTransaction(body)
	if err != nil {
		s.writeError(w, "whitelist", statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, whitelistResponse{Envelope: envelope})
}

// borrowChannel acquires a channel from the pool, or returns a nil channel
// with a no-op release when channels are disabled.
func (s *Server) borrowChannel(ctx context.Context) (*channels.Channel, func(), error) {
	if s.pool == nil {
		return nil, func() {}, nil
	}
	channel, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return channel, func() { s.pool.Release(channel) }, nil
}

// statusFor maps classified sender errors onto HTTP status codes.
func statusFor(err error) int {
	var mismatch *sender.NetworkMismatchedError
	var hErr *client.HorizonError
	var nErr *client.NetworkError
	switch {
	case errors.As(err, &mismatch),
		errors.Is(err, sender.ErrMissingEnvelope),
		errors.Is(err, sender.ErrEnvelopeNotString),
		errors.Is(err, sender.ErrMemoTooLong):
		return http.StatusBadRequest
	case errors.As(err, &hErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, endpoint string, status int, err error) {
	s.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) observe(endpoint string, start time.Time) {
	metrics.RecordRequest(endpoint, time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
