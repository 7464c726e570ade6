package handler

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/service"
)

// InventoryServiceName is the service name the health server reports on,
// next to the overall "" entry.
const InventoryServiceName = "lojinha.storefront.Inventory"

// GRPCHandler serves the standard gRPC health protocol. It reports
// NOT_SERVING until the inventory cache has published its first snapshot.
type GRPCHandler struct {
	health *health.Server
	cache  *service.InventoryCache
	log    *logrus.Logger
}

func NewGRPCHandler(cache *service.InventoryCache, logger *logrus.Logger) *GRPCHandler {
	h := &GRPCHandler{health: health.NewServer(), cache: cache, log: logger}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *GRPCHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Watch keeps the reported status in step with the cache until ctx is done,
// then marks everything NOT_SERVING.
func (h *GRPCHandler) Watch(ctx context.Context) {
	updates, cancel := h.cache.Subscribe(ctx)
	defer cancel()
	defer h.health.Shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case products, ok := <-updates:
			if !ok {
				return
			}
			if h.cache.Ready() {
				h.log.WithField("products", len(products)).Debug("GRPCHandler: snapshot published")
				h.set(healthpb.HealthCheckResponse_SERVING)
			}
		}
	}
}

func (h *GRPCHandler) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(InventoryServiceName, status)
}
