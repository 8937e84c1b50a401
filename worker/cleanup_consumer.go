package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/enkv/draftpad/cache"
	"github.com/enkv/draftpad/mq"
)

// AccountCleanupMessage is enqueued after an account is deleted. Drafts are
// embedded in the user record and die with it; what remains is per-user
// cached state.
type AccountCleanupMessage struct {
	Email string `json:"email"`
}

type CleanupConsumer struct {
	cleanupQueue mq.MessageQueue
	draftCache   cache.DraftCache
}

func NewCleanupConsumer(cleanupQueue mq.MessageQueue, draftCache cache.DraftCache) *CleanupConsumer {
	return &CleanupConsumer{
		cleanupQueue: cleanupQueue,
		draftCache:   draftCache,
	}
}

const visibilityTimeout = 60

func (consumer CleanupConsumer) Run(shutdownCtx context.Context) {
	for {
		msg, err := consumer.cleanupQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("cleanupConsumer receive error: %v", err)
			continue
		}

		if msg == nil {
			continue
		}

		var cleanupMsg AccountCleanupMessage
		if err := json.Unmarshal([]byte(msg.Body), &cleanupMsg); err != nil {
			continue
		}

		// timeout should be a little less than queue visibility timeout
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(visibilityTimeout-1)*time.Second)

		if err := consumer.draftCache.InvalidateUser(ctx, cleanupMsg.Email); err != nil {
			log.Printf("Failed to invalidate cache for deleted account %s: %v", cleanupMsg.Email, err)
			cancel()
			continue
		}
		cancel()

		log.Printf("Cleaned up deleted account %s", cleanupMsg.Email)

		if err := consumer.cleanupQueue.Delete(context.Background(), msg); err != nil {
			log.Printf("cleanupConsumer delete error: %v", err)
			continue
		}
	}
}
