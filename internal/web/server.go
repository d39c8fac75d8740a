/*
Package web serves the browser front-end: the niche form, the loading and
error states, the topic cards with the summary panel, and the text export.
*/
package web

import (
	"context"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/shanehull/trendscan/internal/ai"
	"github.com/shanehull/trendscan/internal/report"
	"github.com/shanehull/trendscan/internal/session"
	"github.com/shanehull/trendscan/internal/types"
)

const (
	sessionCookie = "trendscan_session"

	inFlightErrorMessage = "Анализ уже выполняется. Дождитесь результата."
)

// Analyzer runs one trend analysis.
type Analyzer interface {
	Analyze(ctx context.Context, niche string) (*types.TrendAnalysisResult, error)
}

// Options configures the server. Zero AnalysisTimeout means no deadline.
type Options struct {
	AnalysisTimeout time.Duration
	CSRFKey         []byte
	CSRFSecure      bool
	Now             func() time.Time
}

type Server struct {
	analyzer Analyzer
	sessions *session.Store
	views    *Templates
	log      *zap.SugaredLogger
	opts     Options

	inflight sync.WaitGroup
}

func NewServer(analyzer Analyzer, sessions *session.Store, log *zap.SugaredLogger, opts Options) (*Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	views, err := ParseTemplates(log)
	if err != nil {
		return nil, err
	}
	return &Server{
		analyzer: analyzer,
		sessions: sessions,
		views:    views,
		log:      log,
		opts:     opts,
	}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if !s.opts.CSRFSecure {
		r.Use(plaintextHTTP)
	}
	r.Use(csrf.Protect(s.opts.CSRFKey,
		csrf.Secure(s.opts.CSRFSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)),
	))
	r.Use(s.withSession)

	r.Get("/", s.getIndex)
	r.Post("/analyze", s.postAnalyze)
	r.Get("/export.txt", s.getExport)

	return r
}

// plaintextHTTP tells gorilla/csrf the request arrived over plain HTTP so the
// Referer check is skipped for local use.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) csrfFailure(w http.ResponseWriter, r *http.Request) {
	s.log.Warnw("csrf validation failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
}

type ctxKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id uuid.UUID
		if c, err := r.Cookie(sessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil && s.sessions.Exists(parsed) {
				id = parsed
			}
		}
		if id == uuid.Nil {
			id = s.sessions.New()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id.String(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.CSRFSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func sessionID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(ctxKey{}).(uuid.UUID)
	return id
}

type pageData struct {
	CSRFField template.HTML
	Niche     string
	State     session.State
	Error     string
	Year      int
}

// Loading reports whether an analysis is still running for the session.
func (d *pageData) Loading() bool { return d.State.Status == session.Requesting }

// Done reports whether there is a result to show.
func (d *pageData) Done() bool {
	return d.State.Status == session.Success && d.State.Result != nil
}

func (s *Server) page(r *http.Request, st session.State) *pageData {
	d := &pageData{
		CSRFField: csrf.TemplateField(r),
		Niche:     st.Niche,
		State:     st,
		Year:      s.opts.Now().Year(),
	}
	if st.Status == session.Failed {
		d.Error = st.Err
	}
	return d
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.Get(sessionID(r))
	s.views.Render(w, http.StatusOK, s.page(r, st))
}

func (s *Server) postAnalyze(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	niche := strings.TrimSpace(r.FormValue("niche"))

	if err := s.sessions.Begin(id, niche); err != nil {
		if errors.Is(err, session.ErrInFlight) {
			d := s.page(r, s.sessions.Get(id))
			d.Error = inFlightErrorMessage
			s.views.Render(w, http.StatusConflict, d)
			return
		}
		s.log.Errorw("failed to start analysis", "session", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The analysis outlives the request; the page polls the session for it.
	ctx := context.WithoutCancel(r.Context())
	s.inflight.Add(1)
	go s.runAnalysis(ctx, id, niche)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) runAnalysis(ctx context.Context, id uuid.UUID, niche string) {
	defer s.inflight.Done()

	if s.opts.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AnalysisTimeout)
		defer cancel()
	}

	result, err := s.analyzer.Analyze(ctx, niche)
	if err != nil {
		s.log.Warnw("analysis failed", "session", id, "niche", niche, "error", err)
		err = s.sessions.Fail(id, ai.ErrorMessage(err))
	} else {
		err = s.sessions.Complete(id, result)
	}
	if err != nil {
		s.log.Warnw("session gone before analysis finished", "session", id, "error", err)
	}
}

// Wait blocks until every running analysis has finished.
func (s *Server) Wait() {
	s.inflight.Wait()
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.Get(sessionID(r))
	if st.Status != session.Success || st.Result == nil {
		http.NotFound(w, r)
		return
	}

	now := s.opts.Now()
	body := report.RenderText(st.Result, st.Niche, now)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.FileName(st.Niche, now),
	}))
	_, _ = w.Write([]byte(body))
}
