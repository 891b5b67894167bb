package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"

	"applicantdesk/config"
	_ "applicantdesk/docs"
	"applicantdesk/internal/adapters/auth"
	"applicantdesk/internal/adapters/email"
	"applicantdesk/internal/adapters/qr"
	"applicantdesk/internal/adapters/storage"
	deliveryhttp "applicantdesk/internal/delivery/http"
	"applicantdesk/internal/delivery/http/controllers"
	"applicantdesk/internal/delivery/http/middleware"
	"applicantdesk/internal/domain"
	"applicantdesk/internal/repository/dynamo"
	"applicantdesk/internal/repository/postgres"
	"applicantdesk/internal/services"
)

const (
	qrImageSize     = 256
	shutdownTimeout = 10 * time.Second
)

// @title						Applicant Desk API
// @version					1.0
// @description				Hackathon applicant review, decision emails and QR check-in.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.CreateSchema(ctx, db); err != nil {
		return err
	}
	logger.Info("database schema ready")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}

	var checkInStore domain.CheckInStore
	switch cfg.StoreBackend {
	case config.StoreBackendDynamoDB:
		checkInStore = dynamo.NewCheckInStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable)
	default:
		checkInStore = postgres.NewCheckInStore(db)
	}
	logger.Info("check-in store selected", "backend", cfg.StoreBackend)

	var images domain.QRImageStore
	if cfg.QRBucket != "" {
		images = storage.NewS3ImageStore(s3.NewFromConfig(awsCfg), cfg.QRBucket, cfg.AWSRegion, cfg.QRPublicBaseURL)
	} else {
		logger.Warn("QR_BUCKET not set, QR images are embedded inline in emails")
		images = qr.NewInlineImageStore()
	}

	mailer, err := email.NewMailer(ctx, email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		BCC:         cfg.EmailBCC,
		ReplyTo:     cfg.EmailReplyTo,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipTLS,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.OrganizerPassphraseHash == "" {
		logger.Warn("ORGANIZER_PASSPHRASE_HASH not set, organizer login is disabled")
	}

	applicantRepo := postgres.NewApplicantRepository(db)
	emailLogRepo := postgres.NewEmailLogRepository(db)

	emailService := services.NewEmailService(mailer, renderer, logger)
	applicantService := services.NewApplicantService(
		applicantRepo,
		qr.NewTokenGenerator(),
		qr.NewEncoder(qrImageSize),
		images,
		emailService,
		services.ApplicantServiceConfig{
			EventSlug:      cfg.EventSlug,
			EventName:      cfg.EventName,
			ExcludedEmails: cfg.AdmitExcludedEmails,
		},
		logger,
	)
	checkInService := services.NewCheckInService(checkInStore, logger)
	emailLogService := services.NewEmailLogService(emailLogRepo, applicantRepo, logger)
	authService := services.NewAuthService(auth.NewBcryptHasher(0), auth.NewJWTIssuer(cfg.JWTSecret), cfg.OrganizerPassphraseHash, cfg.JWTExpiry)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		CheckIn:    controllers.NewCheckInController(logger, checkInService),
		Applicants: controllers.NewApplicantController(logger, applicantService),
		EmailLogs:  controllers.NewEmailLogController(logger, emailLogService),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
