package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tinytelemetry/tudu/internal/model"
)

const requestIDHeader = "X-Request-Id"

// Server provides an HTTP JSON API over the todo store.
type Server struct {
	addr      string
	store     model.TodoStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	now       func() time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store model.TodoStore) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// Handler builds the gin engine with all API routes.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/todos", s.handleList)
	api.POST("/todos", s.handleAdd)
	api.POST("/todos/:id/toggle", s.handleToggle)
	// HTML forms cannot issue DELETE, so the POST alias stays.
	api.POST("/todos/:id/delete", s.handleRemove)
	api.DELETE("/todos/:id", s.handleRemove)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = s.now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("http: %s %s?%s status=%d dur=%s id=%s",
			c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond), c.GetString("request_id"))
	}
}

func (s *Server) internalErr(c *gin.Context, err error, msg string) {
	log.Printf("http: %s: %v (id=%s)", msg, err, c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (s *Server) handleHealth(c *gin.Context) {
	n, err := s.store.Len()
	if err != nil {
		s.internalErr(c, err, "failed to read health metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     s.now().Sub(s.startTime).String(),
		"todo_count": n,
	})
}

func (s *Server) handleList(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))

	var (
		todos []model.Todo
		err   error
	)
	if term == "" {
		todos, err = s.store.All()
	} else {
		todos, err = s.store.Find(term)
	}
	if err != nil {
		s.internalErr(c, err, "failed to fetch todos")
		return
	}

	st, err := s.store.Stats()
	if err != nil {
		s.internalErr(c, err, "failed to read stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"term":         term,
		"todos":        todos,
		"total":        st.Total,
		"done":         st.Done,
		"percent_done": st.PercentDone(),
	})
}

func (s *Server) handleAdd(c *gin.Context) {
	var req struct {
		Title string `json:"title" form:"title"`
		Done  bool   `json:"done" form:"done"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := s.store.Add(req.Title, req.Done, s.now())
	if errors.Is(err, model.ErrEmptyTitle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.internalErr(c, err, "failed to add todo")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleToggle(c *gin.Context) {
	todo, err := s.store.Toggle(c.Param("id"))
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}
	if err != nil {
		s.internalErr(c, err, "failed to toggle todo")
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) handleRemove(c *gin.Context) {
	if err := s.store.Remove(c.Param("id")); err != nil {
		s.internalErr(c, err, "failed to remove todo")
		return
	}
	c.Status(http.StatusNoContent)
}
