//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eco-route-service/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	before, _ := client.HGet(ctx, "stats:routes", "total").Int64()

	// Delhi -> Jaipur, one traveler
	event := domain.RouteComparedEvent{
		EventID:         uuid.New(),
		OccurredAt:      time.Now().UTC(),
		From:            "Delhi",
		To:              "Jaipur",
		DistanceKm:      235.3,
		Travelers:       1,
		Modes:           []string{"train", "bus", "car", "flight"},
		Greenest:        "train",
		Fastest:         "flight",
		Cheapest:        "train",
		BaselineCO2:     40,
		BestCO2:         9.41,
		SavingsKg:       30.59,
		MaxRewardPoints: 61,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamRouteCompared,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamRouteCompared)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Event ID: %s\n", event.EventID)

	fmt.Printf("\nWaiting for the stats worker to record it...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for stats:routes to change")
			return
		case <-ticker.C:
			fields, err := client.HGetAll(ctx, "stats:routes").Result()
			if err != nil {
				continue
			}
			var total int64
			fmt.Sscan(fields["total"], &total)
			if total > before {
				pretty, _ := json.MarshalIndent(fields, "", "  ")
				fmt.Printf("\nRecorded:\n%s\n", pretty)
				return
			}
		}
	}
}
