// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"recruiting-backoffice/internal/api"
	"recruiting-backoffice/internal/common/auth"
	awsclients "recruiting-backoffice/internal/common/aws"
	"recruiting-backoffice/internal/common/config"
	"recruiting-backoffice/internal/common/database"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/common/observability"
	"recruiting-backoffice/internal/identity"
	"recruiting-backoffice/internal/mailer"
	"recruiting-backoffice/internal/notify"
	"recruiting-backoffice/internal/search"
	"recruiting-backoffice/internal/store"
	"recruiting-backoffice/internal/workflows/contacts"
	"recruiting-backoffice/internal/workflows/intake"
	"recruiting-backoffice/internal/workflows/posting"
	"recruiting-backoffice/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recruiting back office server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Template registry (invalid registry fails startup) ---
	templates, err := registry.LoadRegistry(cfg.Template.RegistryPath)
	if err != nil {
		zapLog.Fatal("template registry load failed", zap.Error(err))
	}
	zapLog.Info("Template registry loaded", zap.Int("templates", len(templates.Templates)))

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init External Service Clients ---
	sesClient, err := awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}

	snsClient, err := awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}

	s3Client, err := awsclients.NewS3Client(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.S3.Bucket)
	if err != nil {
		zapLog.Fatal("s3 client init failed", zap.Error(err))
	}

	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	zapLog.Info("All external service clients initialized")

	// --- Stores ---
	db := pg.GetDB()
	jobStore := store.NewJobStore(db, log)
	appStore := store.NewApplicationStore(db, log)
	contactStore := store.NewContactStore(db, log)
	notificationStore := store.NewNotificationStore(db, log)
	sequence := store.NewSequence(redisClient.GetClient(), log)

	// --- Domain services ---
	directory := identity.NewDirectory(
		keycloak,
		redisClient.GetClient(),
		time.Duration(cfg.Identity.CacheTTL)*time.Second,
		log,
	)

	jobIndex := search.NewJobIndex(esClient.Client, cfg.Search.JobsIndex, log)

	mail := mailer.New(sesClient, templates, config.FromAddress(cfg), log)

	bus := EventBus.New()

	notifier := notify.New(
		jobStore,
		notificationStore,
		mail,
		directory,
		jobIndex,
		snsClient,
		obs,
		notify.Config{
			OpsFeedEnabled: cfg.Notifications.OpsFeed.Enabled && cfg.Integrations.AWS.SNS.Enabled,
			OpsFeedTopic:   cfg.Integrations.AWS.SNS.TopicARN,
		},
		log,
	)
	if err := notifier.Subscribe(bus, true); err != nil {
		zapLog.Fatal("notifier subscription failed", zap.Error(err))
	}

	// --- Workflows & HTTP server ---
	server := api.NewServer(api.Options{
		Intake:        intake.NewWorkflow(appStore, jobStore, mail, bus, log),
		Posting:       posting.NewWorkflow(jobStore, sequence, bus, log),
		Contacts:      contacts.NewWorkflow(contactStore, log),
		Directory:     directory,
		Search:        jobIndex,
		Feed:          notificationStore,
		Resumes:       s3Client,
		PresignExpiry: time.Duration(cfg.Integrations.AWS.S3.PresignExpiry) * time.Minute,
		Observability: obs,
		Logger:        log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	// Let in-flight async fan-out finish before the process exits.
	bus.WaitAsync()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
