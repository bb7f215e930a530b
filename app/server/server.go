package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Server runs the HTTP listener and, optionally, a cron scheduler.
type Server struct {
	http  *http.Server
	cron  *cron.Cron
	log   logrus.FieldLogger
	errCh chan error

	jobCtx    context.Context
	cancelJob context.CancelFunc
}

func New(addr string, handler http.Handler, log logrus.FieldLogger) *Server {
	jobCtx, cancelJob := context.WithCancel(context.Background())
	return &Server{
		jobCtx:    jobCtx,
		cancelJob: cancelJob,
		http: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:   log,
		errCh: make(chan error, 1),
	}
}

// Schedule runs job on the cron spec. A run still in progress makes the next
// tick a no-op.
func (s *Server) Schedule(spec string, job func(ctx context.Context)) error {
	if s.cron == nil {
		s.cron = cron.New(cron.WithChain(
			cron.Recover(cronLogger{s.log}),
			cron.SkipIfStillRunning(cronLogger{s.log}),
		))
	}
	_, err := s.cron.AddFunc(spec, func() { job(s.jobCtx) })
	return err
}

// Start begins serving in the background. Listener failures are reported by Err.
func (s *Server) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("HTTP server starting")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
	}()
}

func (s *Server) Err() <-chan error {
	return s.errCh
}

// Shutdown stops the scheduler, waiting for a running job, then drains the
// HTTP server within the timeout. A job still running at the deadline has its
// context cancelled.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.log.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	defer s.cancelJob()

	if s.cron != nil {
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
			s.log.Warn("scheduled sync still running at shutdown")
			s.cancelJob()
		}
	}

	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(kv []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
