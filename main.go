package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"github.com/enkv/draftpad/api"
	"github.com/enkv/draftpad/cache/redis"
	"github.com/enkv/draftpad/drive"
	"github.com/enkv/draftpad/mq/sqsmq"
	"github.com/enkv/draftpad/store/dynamo"
)

const (
	DynamoDBTable       = "Draftpad"
	AccountCleanupQueue = "AccountCleanupQueue"
)

func main() {
	ctx := context.Background()
	devMode := os.Getenv("DEV_MODE") == "true"

	draftStore, err := dynamo.NewDynamoDraftStore(ctx, devMode, os.Getenv("DYNAMODB_ENDPOINT"), DynamoDBTable)
	if err != nil {
		log.Fatalf("Failed to create dynamodb store: %v", err)
	}

	cleanupQueue, err := sqsmq.NewSQSMessageQueue(ctx, devMode, os.Getenv("SQS_ENDPOINT"), AccountCleanupQueue)
	if err != nil {
		log.Fatalf("Failed to create SQS MQ: %v", err)
	}

	draftCache, err := redis.NewRedisDraftCache(ctx, devMode, os.Getenv("REDIS_ENDPOINT"))
	if err != nil {
		log.Fatalf("Failed to create redis cache: %v", err)
	}

	var oauthConfigs = map[string]*oauth2.Config{
		"google": {
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
		},
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to decode base64 jwtSecret: %v", err)
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	draftpadAPI, err := api.NewDraftpadAPI(draftStore, draftCache, cleanupQueue, drive.NewClient(), oauthConfigs, jwtSecret, shutdownCtx)
	if err != nil {
		log.Fatalf("Failed to create draftpad api: %v", err)
	}

	mux := http.NewServeMux()
	draftpadAPI.RegisterRoutes(mux)

	hostPort := "8080"
	if p := os.Getenv("HOST_PORT"); p != "" {
		hostPort = p
	}
	log.Printf("Starting server on host port: %s\n", hostPort)
	log.Fatal(http.ListenAndServe(":"+hostPort, mux))
}
