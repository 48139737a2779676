// ABOUTME: Twilio-style SMS webhook answering each inbound text with TwiML
// ABOUTME: POST /sms reads the Body form field and replies through the inference engine
package sms

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/logging"
)

const (
	replyMaxTokens   = 80
	replyTemperature = 0.7
	maxFormBytes     = 64 * 1024
)

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Server is the webhook
type Server struct {
	engine llm.Engine
	logger *zap.Logger
	router chi.Router
}

// NewServer builds the webhook router around an inference engine
func NewServer(engine llm.Engine, logger *zap.Logger) *Server {
	s := &Server{
		engine: engine,
		logger: logging.OrNop(logger).Named("sms"),
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Post("/sms", s.handleSMS)
	s.router = r

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("SMS webhook listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	incoming := strings.TrimSpace(r.PostFormValue("Body"))

	reply, err := s.engine.Generate(r.Context(), incoming, llm.Options{
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		s.logger.Warn("sms reply failed", zap.Error(err))
		reply, _ = llm.Fallback{}.Generate(r.Context(), incoming, llm.Options{})
	}

	out, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		http.Error(w, "failed to encode reply", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(out)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Duration("took", time.Since(start)))
	})
}
