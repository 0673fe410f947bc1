package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/audit"
	"github.com/xavierca1/ligue-crm/internal/infra/cache"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/events"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/ws"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	tokenTTL, _ := time.ParseDuration(os.Getenv("JWT_EXPIRES_IN"))
	tokens, err := auth.NewTokenManager(os.Getenv("JWT_SECRET"), tokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	// RabbitMQ é opcional: sem ele o espelho AMQP de eventos fica desligado.
	var rabbitMQ *queue.RabbitMQ
	var broker events.Broker
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err = queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		broker = queue.NewProducer(rabbitMQ.Ch)
	}

	// Redis é opcional: sem ele o overview é sempre recalculado.
	var redisClient *redis.Client
	var overviewCache usecase.OverviewCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
		overviewCache = cache.NewOverviewCache(redisClient)
	}

	// SMTP é opcional: sem ele atribuições de lead não geram e-mail.
	var mailService usecase.MailService
	if host := os.Getenv("MAIL_HOST"); host != "" {
		mailService = mail.NewEmailSender(host, 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"))
	}

	// 1. Repositórios
	userRepo := database.NewUserRepository(db)
	leadRepo := database.NewLeadRepository(db)
	activityRepo := database.NewActivityRepository(db)
	auditRepo := database.NewAuditLogRepository(db)

	// 2. Side channels: WebSocket hub, fan-out de eventos, trilha de auditoria
	hub := ws.NewHub()
	wsHandler := ws.NewHandler(hub, tokens)
	bus := events.NewFanOut(hub, broker)
	recorder := audit.NewRecorder(auditRepo)

	// 3. UseCases
	registerUC := usecase.NewRegisterUseCase(userRepo, recorder)
	loginUC := usecase.NewLoginUseCase(userRepo, tokens)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, userRepo, bus, recorder)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, userRepo, activityRepo, bus, recorder, mailService)
	updateLeadUC.OnStatusChange = middleware.RecordLeadStatusChange
	deleteLeadUC := usecase.NewDeleteLeadUseCase(leadRepo, bus, recorder)
	createActivityUC := usecase.NewCreateActivityUseCase(activityRepo, leadRepo, bus, recorder)
	analyticsUC := usecase.NewAnalyticsUseCase(leadRepo, activityRepo, userRepo, overviewCache)

	// 4. Handlers
	authHandler := handlers.NewAuthHandler(registerUC, loginUC, userRepo)
	leadHandler := handlers.NewLeadHandler(createLeadUC, updateLeadUC, deleteLeadUC, leadRepo)
	activityHandler := handlers.NewActivityHandler(createActivityUC, activityRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsUC)
	logsHandler := handlers.NewLogsHandler(auditRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, redisClient)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	authn := middleware.Authenticator(tokens)
	managers := middleware.RequireRole(entity.RoleAdmin, entity.RoleManager)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.OptionalAuthenticator(tokens)).Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.With(authn).Get("/me", authHandler.HandleMe)
	})

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", leadHandler.HandleCreate)
		r.Get("/", leadHandler.HandleList)
		r.Get("/{id}", leadHandler.HandleGet)
		r.Put("/{id}", leadHandler.HandleUpdate)
		r.Delete("/{id}", leadHandler.HandleDelete)
	})

	r.Route("/api/activities", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", activityHandler.HandleCreate)
		r.Get("/by-lead/{leadId}", activityHandler.HandleListByLead)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(authn)
		r.Get("/overview", analyticsHandler.HandleOverview)
		r.With(managers).Get("/by-owner", analyticsHandler.HandleByOwner)
		r.With(managers).Get("/leads-by-status", analyticsHandler.HandleLeadsByStatus)
		r.With(managers).Get("/activities-7d", analyticsHandler.HandleActivities7d)
	})

	r.Route("/api/logs", func(r chi.Router) {
		r.Use(authn)
		r.With(managers).Get("/", logsHandler.HandleList)
		r.Get("/mine", logsHandler.HandleMine)
	})

	r.With(authn, managers).Get("/api/users", userHandler.HandleList)

	r.Handle("/ws", wsHandler.WebSocket())
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Printf("🔥 Server Ligue CRM rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:5173"}
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
