package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xikelabs/lead-tracker/internal/config"
	"github.com/xikelabs/lead-tracker/internal/infra/database"
	"github.com/xikelabs/lead-tracker/internal/infra/http/handlers"
	"github.com/xikelabs/lead-tracker/internal/infra/http/middleware"
	"github.com/xikelabs/lead-tracker/internal/infra/mail"
	"github.com/xikelabs/lead-tracker/internal/infra/queue"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.FromEnv()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	roleRepo := database.NewRoleRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	// 3. Worker (consumes lead events, sends notification emails)
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	resolveRoleUC := usecase.NewResolveRoleUseCase(roleRepo)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, resolveRoleUC, producer)
	deleteLeadUC := usecase.NewDeleteLeadUseCase(leadRepo, resolveRoleUC)
	lifecycleUC := usecase.NewLeadLifecycleUseCase(leadRepo, resolveRoleUC, producer)
	importUC := usecase.NewBulkImportUseCase(createLeadUC, resolveRoleUC)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, createLeadUC, deleteLeadUC)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleUC)
	importHandler := handlers.NewImportHandler(importUC)
	roleHandler := handlers.NewRoleHandler(resolveRoleUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-Id", "X-User-Email"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity)

		r.Get("/me/role", roleHandler.HandleMe)

		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads", leadHandler.HandleCreate)
		r.Post("/leads/import", importHandler.HandleImport)
		r.Get("/leads/{id}", leadHandler.HandleGet)
		r.Delete("/leads/{id}", leadHandler.HandleDelete)

		r.Post("/leads/{id}/approve", lifecycleHandler.HandleApprove)
		r.Post("/leads/{id}/pitch", lifecycleHandler.HandlePitch)
		r.Post("/leads/{id}/remarks", lifecycleHandler.HandleRemark)
		r.Post("/leads/{id}/visits", lifecycleHandler.HandleVisit)
	})

	addr := ":" + cfg.Port
	log.Printf("Sales Lead Tracker API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
