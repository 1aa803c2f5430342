package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketplace_back_end/internal/config"
	"marketplace_back_end/internal/database"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/routes"
	"marketplace_back_end/internal/services"
	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	conf := config.Load()
	if err := conf.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger

	if conf.GinMode != "" {
		gin.SetMode(conf.GinMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, db, err := database.ConnectMongo(ctx, conf.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := database.ConnectRedis(ctx, conf.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	blobs, uploadDir, err := newBlobStore(ctx, conf.Blob)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise blob store")
	}

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	tokens := utils.NewTokenService(conf.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:      tokens,
		Accounts:    services.NewAccountService(users, tokens),
		Catalog:     services.NewCatalogService(products, blobs),
		Carts:       services.NewCartService(users, products),
		RateLimiter: middleware.NewRateLimiter(rdb),
		UploadDir:   uploadDir,
	})

	srv := &http.Server{
		Addr:    ":" + conf.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", conf.Port).Str("blob_backend", conf.Blob.Backend).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
}

// newBlobStore returns the configured store and, for the local backend, the
// directory to serve under /uploads.
func newBlobStore(ctx context.Context, conf config.BlobConfig) (services.BlobStore, string, error) {
	if conf.Backend == config.BlobBackendMinIO {
		client, err := database.ConnectMinIO(ctx, conf.MinIO)
		if err != nil {
			return nil, "", err
		}

		publicURL := conf.MinIO.PublicURL
		if publicURL == "" {
			scheme := "http://"
			if conf.MinIO.UseSSL {
				scheme = "https://"
			}
			publicURL = scheme + strings.TrimPrefix(strings.TrimPrefix(conf.MinIO.Endpoint, "http://"), "https://")
		}

		return services.NewMinioBlobStore(client, conf.MinIO.Bucket, publicURL), "", nil
	}

	store, err := services.NewLocalBlobStore(conf.UploadDir, conf.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
