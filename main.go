package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/mrops-br/products-catalog/internal/app/service"
	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/mrops-br/products-catalog/internal/infrastructure/database"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/handler"
	"github.com/mrops-br/products-catalog/internal/infrastructure/repository/gormrepo"
	"github.com/mrops-br/products-catalog/internal/infrastructure/repository/memory"
	"github.com/mrops-br/products-catalog/internal/infrastructure/rpc"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(cfg.OTLP.ServiceName)
	meter := telem.MeterProvider.Meter(cfg.OTLP.ServiceName)
	logger := telem.Logger

	logger.Info("Starting Products Catalog", slog.String("driver", cfg.Database.Driver))

	repo, db, err := openRepository(ctx, cfg, telem.TracerProvider, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize repository", slog.String("error", err.Error()))
		return
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("Failed to close database", slog.String("error", err.Error()))
			}
		}()
	}

	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	httpServer := http.NewServer(&cfg.Server, productHandler, telem.MeterProvider, logger)
	grpcServer := rpc.NewServer(productService, telem.TracerProvider, telem.MeterProvider, logger)

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.GRPC.Port))
	if err != nil {
		logger.Error("Failed to listen for gRPC", slog.String("error", err.Error()))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error { return grpcServer.Serve(lis) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// openRepository picks the product store named by DB_DRIVER. The returned
// *gorm.DB is nil for the in-memory store.
func openRepository(
	ctx context.Context,
	cfg *config.Config,
	tp trace.TracerProvider,
	tracer trace.Tracer,
	logger *slog.Logger,
) (domain.ProductRepository, *gorm.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return memory.NewProductRepository(tracer, logger), nil, nil
	}

	db, err := database.Open(ctx, &cfg.Database, tp, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := gormrepo.AutoMigrate(ctx, db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	return gormrepo.NewProductRepository(db, logger), db, nil
}
