package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/reclaim/internal/config"
	"github.com/campuskit/reclaim/internal/llm"
	"github.com/campuskit/reclaim/internal/matching"
	"github.com/campuskit/reclaim/internal/store"
)

type Server struct {
	Store      store.Store
	Finder     *matching.Finder
	Dispatcher *matching.Dispatcher
}

// NewServer wires config, storage, the LLM client, and the matching core.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("No config at %s (%v), using defaults", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars override file values.
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	client, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if client == nil {
		log.Printf("No LLM provider configured, scoring with deterministic fallback only")
	}

	return New(st, cfg, client)
}

// New assembles a Server from already-constructed collaborators.
func New(st store.Store, cfg *config.Config, client llm.Client) *Server {
	scorer := matching.NewSimilarityScorer(client, time.Duration(cfg.Matching.LLMTimeoutSeconds)*time.Second)
	finder := matching.NewFinder(st, st, scorer, cfg.Matching)

	// One auto-match run can make an LLM call per candidate; give the
	// whole run generous headroom over the per-call timeout.
	runTimeout := 5 * time.Minute
	dispatcher := matching.NewDispatcher(finder, 64, runTimeout)

	return &Server{
		Store:      st,
		Finder:     finder,
		Dispatcher: dispatcher,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)

	r.POST("/items", s.CreateItem)
	r.GET("/items", s.ListItems)
	r.GET("/items/:id", s.GetItem)
	r.GET("/items/:id/suggestions", s.Suggestions)
	r.POST("/items/:id/auto-match", s.AutoMatch)
	r.GET("/items/:id/matches", s.ListMatches)

	return r
}

// Close stops the dispatcher and releases storage.
func (s *Server) Close() {
	s.Dispatcher.Close()
	if err := s.Store.Close(); err != nil {
		log.Printf("Failed to close store: %v", err)
	}
}
