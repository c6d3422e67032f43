package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"

	"reel/catalog"
	"reel/config"
	"reel/tui"
)

var Version = "v0.0.0"

const shutdownTimeout = 10 * time.Second

type ratingSource interface {
	Fetch(ctx context.Context, imdbID string) (*catalog.IMDbRating, error)
}

type Server struct {
	config  *config.Config
	catalog *catalog.Client
	ratings ratingSource
	cache   *cache.Cache
	router  *mux.Router
}

func main() {
	app := &cli.App{
		Name:    "reel",
		Usage:   "browse the movie catalog",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"verbose"},
				Usage:   "debug log level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the catalog JSON API",
				Action: serve,
			},
			{
				Name:   "browse",
				Usage:  "open the terminal catalog",
				Action: browse,
			},
		},
		Action: browse,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("reel failed")
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.Load()
	if c.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func setupLogging(cfg *config.Config, handler log.Handler) {
	log.SetHandler(handler)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func newCatalog(cfg *config.Config) (*catalog.Client, *catalog.RatingScraper) {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	return catalog.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey, catalog.WithHTTPClient(hc)), catalog.NewRatingScraper(hc)
}

func NewServer(cfg *config.Config, client *catalog.Client, ratings ratingSource) *Server {
	s := &Server{
		config:  cfg,
		catalog: client,
		ratings: ratings,
		router:  mux.NewRouter(),
	}
	if cfg.CacheTTL > 0 {
		s.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestIDMiddleware)
	s.router.Use(loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	fs := http.FileServer(http.Dir(s.config.AssetsDir))
	s.router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", fs))

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", s.handleHome).Methods("GET")
	api.HandleFunc("/category/{name}", s.handleCategory).Methods("GET")
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/tv/{id:[0-9]+}/season/{season:[0-9]+}", s.handleSeasonDetails).Methods("GET")
	api.HandleFunc("/{kind:movie|tv|series}/{id:[0-9]+}", s.handleDetails).Methods("GET")
	api.HandleFunc("/embed/movie/{id:[0-9]+}", s.handleMovieEmbed).Methods("GET")
	api.HandleFunc("/embed/tv/{id:[0-9]+}", s.handleTVEmbed).Methods("GET")
	api.HandleFunc("/imdb/{imdb_id}", s.handleIMDBRating).Methods("GET")

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// Handler wraps the router with CORS for the browser page.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader, cacheHeader},
	})
	return c.Handler(s.router)
}

func serve(c *cli.Context) error {
	cfg := loadConfig(c)
	setupLogging(cfg, text.New(os.Stderr))

	client, ratings := newCatalog(cfg)
	server := NewServer(cfg, client, ratings)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("→ Server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func browse(c *cli.Context) error {
	cfg := loadConfig(c)

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	setupLogging(cfg, jsonhandler.New(f))

	client, ratings := newCatalog(cfg)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("version", Version).Info("browse started")
	return tui.Run(ctx, tui.Options{
		Config:  cfg,
		Catalog: client,
		Ratings: ratings,
	})
}
