package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"library-catalog/initializers"
	"library-catalog/internals/repository"
	logger "library-catalog/loggers"
)

const sessionCookie = "library_session"

// sessionCounter is the slice of the redis client the visit counter needs.
type sessionCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// visitStore overrides the counter backend in tests; nil means the shared client.
var visitStore sessionCounter

type HomeResponse struct {
	repository.CatalogCounts
	NumVisits int64 `json:"num_visits"`
}

// Index is the catalog home page: collection counts plus the number of
// times this session has visited before.
func Index(c *gin.Context) {
	counts, err := repository.CountCatalog()
	if err != nil {
		logger.Logger.Error("failed to count catalog: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog counts"})
		return
	}

	c.JSON(http.StatusOK, HomeResponse{
		CatalogCounts: *counts,
		NumVisits:     countVisit(c),
	})
}

func visitCounterStore() sessionCounter {
	if visitStore != nil {
		return visitStore
	}
	if initializers.Client == nil {
		return nil
	}
	return initializers.Client
}

// countVisit bumps the per-session visit counter and returns the count of
// previous visits. The counter is best effort, visits before the cache is
// reachable read as zero.
func countVisit(c *gin.Context) int64 {
	store := visitCounterStore()
	if store == nil {
		return 0
	}

	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(sessionCookie, sessionID, 365*24*3600, "/", "", false, true)
	}

	key := fmt.Sprintf("session:%s:num_visits", sessionID)
	visits, err := store.Incr(context.Background(), key).Result()
	if err != nil {
		logger.Logger.Error("failed to bump visit counter: ", err)
		return 0
	}
	return visits - 1
}
