package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/adapter/storage"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/service"
)

const (
	busyItem   = "cerveja" // starts at 48
	drainItem  = "gas"     // starts at 2
	increments = 200
	decrements = 40
	drainCalls = 50
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "lojinha-stress")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := storage.OpenBolt(filepath.Join(dir, "stress.db"))
	if err != nil {
		log.Fatalf("failed to open bolt: %v", err)
	}
	defer store.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	// No remote store is needed in local mode.
	cache := service.NewInventoryCache(nil, store, domain.BackendLocal, logger)
	cache.Load(ctx)

	busyStart, _ := cache.Product(busyItem)
	drainStart, _ := cache.Product(drainItem)

	var publishes atomic.Int32
	subCtx, stop := context.WithCancel(ctx)
	updates, cancel := cache.Subscribe(subCtx)
	var last []domain.Product
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		for products := range updates {
			publishes.Add(1)
			last = products
		}
	}()

	var failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	run := func(n int, op func(context.Context, string) (*domain.Product, error), id string) {
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := op(ctx, id); err != nil {
					failCount.Add(1)
				}
			}()
		}
	}
	run(increments, cache.Increment, busyItem)
	run(decrements, cache.Decrement, busyItem)
	run(drainCalls, cache.Decrement, drainItem)

	wg.Wait()
	elapsed := time.Since(start)

	time.Sleep(50 * time.Millisecond)
	stop()
	cancel()
	<-watched

	busy, _ := cache.Product(busyItem)
	drain, _ := cache.Product(drainItem)
	wantBusy := busyStart.Quantity + increments - decrements

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Mutations:        %d\n", increments+decrements+drainCalls)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Publishes seen:   %d\n", publishes.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	check(busy.Quantity == wantBusy, "%s ended at %d (want %d)", busyItem, busy.Quantity, wantBusy)
	check(drain.Quantity == 0, "%s clamped at %d from %d after %d decrements", drainItem, drain.Quantity, drainStart.Quantity, drainCalls)

	persisted, ok, err := store.ReadSnapshot(ctx)
	check(err == nil && ok, "persisted snapshot readable")
	if ok {
		i := domain.IndexOf(persisted, busyItem)
		check(i >= 0 && persisted[i].Quantity == wantBusy, "persisted %s matches memory", busyItem)
	}

	if last != nil {
		i := domain.IndexOf(last, busyItem)
		check(i >= 0 && last[i].Quantity == wantBusy, "last published snapshot matches memory")
	}
}

func check(ok bool, format string, args ...any) {
	status := "PASS"
	if !ok {
		status = "FAIL"
	}
	fmt.Printf("%s: %s\n", status, fmt.Sprintf(format, args...))
}
