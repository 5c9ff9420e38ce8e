package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/rl1809/stock-catalog/internal/adapter/storage"
	"github.com/rl1809/stock-catalog/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	sku           = "STRESS1"
	initialStock  = 20
	totalRequests = 50
	retries       = 3
)

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, "record:"+sku)
	keys, _ := rdb.Keys(ctx, "receipt:stress-*").Result()
	for _, k := range keys {
		rdb.Del(ctx, k)
	}

	// Records live in an in-memory SQLite database for the run
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatalf("failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	repo := storage.NewSQLAdapter(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	catalog := service.NewCatalogService(repo, storage.NewRedisAdapter(rdb), nil, nil)
	seed := fmt.Sprintf("N,%s,Stress,unit,0,1,%d,0\n", sku, initialStock)
	if _, err := catalog.Import(ctx, strings.NewReader(seed)); err != nil {
		log.Fatalf("failed to seed record: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var failCount atomic.Int32

	// Every receipt is sent retries times
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		for j := 0; j < retries; j++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()

				_, err := catalog.Receive(ctx, fmt.Sprintf("stress-%d", id), sku, 1)
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, service.ErrDuplicateRequest):
					duplicateCount.Add(1)
				default:
					failCount.Add(1)
				}
			}(i)
		}
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	duplicate := duplicateCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Receipts:   %d\n", totalRequests)
	fmt.Printf("Sent:             %d\n", totalRequests*retries)
	fmt.Printf("Applied:          %d\n", success)
	fmt.Printf("Duplicates:       %d\n", duplicate)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success+fail <= int32(totalRequests) && duplicate == int32(totalRequests*(retries-1)) {
		fmt.Println("PASS: every receipt was applied at most once")
	} else {
		fmt.Printf("FAIL: expected %d duplicates, got %d\n", totalRequests*(retries-1), duplicate)
	}

	// Verify final stock
	item, err := catalog.Get(ctx, sku)
	if err != nil {
		log.Fatalf("failed to read record: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", item.Quantity())

	if item.Quantity() == initialStock+int(success) {
		fmt.Println("PASS: stock matches applied receipts")
	} else {
		fmt.Printf("FAIL: expected stock %d, got %d\n", initialStock+int(success), item.Quantity())
	}
}
