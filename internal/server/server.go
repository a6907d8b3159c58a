package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal"
	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/lookup"
	"codeberg.org/snonux/ankidict/internal/processor"
	"codeberg.org/snonux/ankidict/internal/word"
)

// Server serves the HTTP API.
type Server struct {
	proc     *processor.Processor
	router   *gin.Engine
	sessions *sessionStore
	log      *zap.Logger
}

// New builds the router. Requests from origins outside allowedOrigins are
// refused by CORS; an empty list allows every origin.
func New(proc *processor.Processor, allowedOrigins []string, log *zap.Logger) *Server {
	log = logging.OrNop(log)

	if log.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", SessionHeader},
		ExposeHeaders: []string{"Content-Length", SessionHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]bool, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[o] = true
		}
		corsConfig.AllowOriginFunc = func(origin string) bool { return allowed[origin] }
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	s := &Server{
		proc:     proc,
		router:   router,
		sessions: newSessionStore(proc.NewSession, DefaultSessionTTL, DefaultMaxSessions),
		log:      log,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)

	s.router.GET("/decks", s.decks)
	s.router.GET("/note-types", s.noteTypes)
	s.router.GET("/fields/:noteType", s.fields)
	s.router.GET("/connections", s.connections)

	// Only these routes read or change per-client state.
	api := s.router.Group("/", withSession(s.sessions))
	api.POST("/lookup", s.lookup)
	api.POST("/export", s.export)
	api.POST("/save-note", s.saveNote)
}

func session(c *gin.Context) *processor.Session {
	return c.MustGet(sessionKey).(*processor.Session)
}

// GET /health
func (s *Server) health(c *gin.Context) {
	ok(c, gin.H{"status": "ok", "version": internal.Version})
}

type lookupRequest struct {
	Term    string `json:"term"`
	Context string `json:"context"`
	Source  string `json:"source"`
}

// POST /lookup: look a term up within the caller's session
func (s *Server) lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.proc.Lookup(c.Request.Context(), session(c), lookup.Request{
		Term:    req.Term,
		Context: req.Context,
		Source:  req.Source,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

type exportRequest struct {
	Deck     string       `json:"deck"`
	NoteType string       `json:"noteType"`
	Tags     []string     `json:"tags"`
	Record   *word.Record `json:"record"`
}

// POST /export: add the given record, or the session's last one, to Anki
func (s *Server) export(c *gin.Context) {
	var req exportRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := s.proc.ExportCard(c.Request.Context(), session(c), req.Record, processor.ExportOptions{
		Deck:     req.Deck,
		NoteType: req.NoteType,
		Tags:     req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"success": true, "noteId": id})
}

type saveNoteRequest struct {
	Record *word.Record `json:"record"`
}

// POST /save-note: write the record as a markdown note
func (s *Server) saveNote(c *gin.Context) {
	var req saveNoteRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	path, err := s.proc.SaveNote(c.Request.Context(), session(c), req.Record)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"success": true, "path": path})
}

// GET /decks
func (s *Server) decks(c *gin.Context) {
	ok(c, s.proc.Decks(c.Request.Context()))
}

// GET /note-types: also names the type to preselect
func (s *Server) noteTypes(c *gin.Context) {
	ctx := c.Request.Context()
	ok(c, gin.H{
		"data":      s.proc.NoteTypes(ctx),
		"preferred": s.proc.PreferredNoteType(ctx),
	})
}

// GET /fields/:noteType
func (s *Server) fields(c *gin.Context) {
	ok(c, s.proc.Fields(c.Request.Context(), c.Param("noteType")))
}

// GET /connections: probe the synthesizer and the Anki bridge
func (s *Server) connections(c *gin.Context) {
	status := s.proc.CheckConnections(c.Request.Context())
	bridge := gin.H{"ok": status.Bridge == nil}
	if status.Bridge != nil {
		bridge["message"] = status.Bridge.Error()
	}
	ok(c, gin.H{
		"synthesizer": gin.H{"ok": status.Synthesizer, "name": status.SynthesizerName},
		"anki":        bridge,
	})
}

// bindOptionalJSON decodes the body when there is one.
func bindOptionalJSON(c *gin.Context, v interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(v)
}
