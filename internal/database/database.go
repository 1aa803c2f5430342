package database

import (
	"context"
	"fmt"

	"marketplace_back_end/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// =============================================
// MONGODB
// =============================================

// ConnectMongo dials MongoDB, pings the primary and returns the client with
// the configured database handle.
func ConnectMongo(ctx context.Context, conf config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().Str("component", "database").Str("database", conf.Database).Msg("connected to MongoDB")

	return client, client.Database(conf.Database), nil
}

// =============================================
// REDIS
// =============================================

// ConnectRedis returns nil without error when no host is configured.
func ConnectRedis(ctx context.Context, conf config.RedisConfig) (*redis.Client, error) {
	if conf.Host == "" {
		log.Info().Str("component", "database").Msg("REDIS_HOST not set, rate limiting disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Host,
		Password: conf.Password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("component", "database").Str("host", conf.Host).Msg("connected to Redis")

	return rdb, nil
}

// =============================================
// MINIO
// =============================================

// ConnectMinIO creates the client and makes sure the bucket exists.
func ConnectMinIO(ctx context.Context, conf config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", conf.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", conf.Bucket, err)
		}
		log.Info().Str("component", "database").Str("bucket", conf.Bucket).Msg("bucket created")
	}

	log.Info().Str("component", "database").Str("endpoint", conf.Endpoint).Msg("connected to MinIO")

	return client, nil
}
