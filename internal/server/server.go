package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gramseva/apiserver/config"
	"github.com/gramseva/apiserver/internal/db"
	"github.com/gramseva/apiserver/internal/handlers"
	"github.com/gramseva/apiserver/internal/mq"
	"github.com/gramseva/apiserver/internal/notify"
	"github.com/gramseva/apiserver/internal/realtime"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/internal/storage"
	"github.com/gramseva/apiserver/internal/store"
)

// Server wraps the HTTP server, the broker and the database handle.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mq         *mq.MQ
	cancel     context.CancelFunc
}

// New constructs a fully wired Server: database, broker, object
// storage, services and routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	broker, err := newMQ(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	objectStorage, err := newStorage(ctx, cfg)
	if err != nil {
		_ = broker.Close()
		_ = dbConn.Close()
		return nil, err
	}
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		_ = broker.Close()
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	profileRepo := store.NewProfileRepository(dbConn)
	complaintRepo := store.NewComplaintRepository(dbConn)
	documentRepo := store.NewDocumentRepository(dbConn)
	announcementRepo := store.NewAnnouncementRepository(dbConn)
	statsRepo := store.NewStatsRepository(dbConn)

	notifier := notify.New(broker)

	profileService := services.NewProfileService(profileRepo)
	complaintService := services.NewComplaintService(complaintRepo, notifier)
	documentService := services.NewDocumentService(documentRepo, notifier)
	announcementService := services.NewAnnouncementService(announcementRepo, notifier)
	statsService := services.NewStatsService(statsRepo)
	attachmentService := services.NewAttachmentService(objectStorage)

	hubCtx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub()
	hub.Run(hubCtx, broker)

	authMiddleware := handlers.RequireAuth(jwtSecret)
	wsHandler := handlers.NewWSHandler(hub)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Get("/ws", wsHandler.Serve)
	handlers.PublicRouter(router, statsService, complaintService, documentService)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, profileService, jwtSecret)
	})
	router.Route("/complaints", func(r chi.Router) {
		handlers.ComplaintRouter(r, complaintService, profileService, authMiddleware)
	})
	router.Route("/documents", func(r chi.Router) {
		handlers.DocumentRouter(r, documentService, profileService, authMiddleware)
	})
	router.Route("/announcements", func(r chi.Router) {
		handlers.AnnouncementRouter(r, announcementService, profileService, authMiddleware)
	})
	router.Route("/attachments", func(r chi.Router) {
		handlers.AttachmentRouter(r, attachmentService, profileService, authMiddleware)
	})
	router.Route("/admin", func(r chi.Router) {
		handlers.AdminRouter(r, profileService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mq:         broker,
		cancel:     cancel,
	}, nil
}

func newMQ(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQBackend {
	case config.MQBackendRabbitMQ:
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case config.MQBackendPubSub:
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMinio:
		backend, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case config.StorageBackendGCS:
		backend, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the change-event subscriptions and closes the broker,
// the database and the HTTP server.
func (s *Server) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.mq != nil {
		_ = s.mq.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
