package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"time"

	mw "github.com/openshelf/catalog-api/internal/api/middlewares"
	"github.com/openshelf/catalog-api/internal/api/router"
	"github.com/openshelf/catalog-api/internal/repository/sqlconnect"
	"github.com/openshelf/catalog-api/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load(".env")

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":3000"
	}

	db, err := sqlconnect.ConnectDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := newRedisClient()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, 3000, 60*time.Minute, mw.PerIPKey("sw"))

	handler := utils.ApplyMiddleware(
		router.Router(db, rdb),
		mw.Recovery,
		mw.RequestID,
		mw.Cors,
		mw.ResponseTime,
		tb.Middleware,
		sw.Middleware,
		mw.BodySizeLimit,
		mw.Compression,
		mw.SecurityHeaders,
		func(next http.Handler) http.Handler { return mw.OptionalAuth(db, next) },
	)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	log.Println("server listening on", addr)
	if cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY"); cert != "" && key != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("server error:", err)
	}
}

func newRedisClient() *redis.Client {
	if url := os.Getenv("REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt)
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Fatal("missing Redis config: set REDIS_URL or REDIS_ADDR")
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     os.Getenv("REDIS_USER"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}
