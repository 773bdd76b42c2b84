package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/app/service"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// correlationIDKey is the metadata key mirroring the HTTP X-Correlation-ID header
const correlationIDKey = "x-correlation-id"

var errInvalidProductID = errors.New("id must be a positive integer")

// Server serves the catalog over gRPC
type Server struct {
	service *service.ProductService
	logger  *slog.Logger
	grpc    *grpc.Server
	health  *health.Server
}

// NewServer creates a gRPC server with the catalog and health services registered
func NewServer(
	svc *service.ProductService,
	tracerProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	s := &Server{
		service: svc,
		logger:  logger,
		health:  health.NewServer(),
	}

	s.grpc = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler(
			otelgrpc.WithTracerProvider(tracerProvider),
			otelgrpc.WithMeterProvider(meterProvider),
		)),
		grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.correlationInterceptor, s.loggingInterceptor),
	)

	RegisterCatalogServer(s.grpc, s)
	grpc_health_v1.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return s
}

// Serve accepts connections on lis until GracefulStop is called
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", slog.String("address", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// GracefulStop marks the server as not serving and drains in-flight calls
func (s *Server) GracefulStop() {
	s.logger.Info("Shutting down gRPC server")
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, toStatus(err)
	}
	product, err := s.service.CreateProduct(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return product, nil
}

func (s *Server) ListProducts(ctx context.Context, req *dto.PaginationRequest) (*dto.PaginatedProducts, error) {
	page := req.WithDefaults()
	if err := page.Validate(); err != nil {
		return nil, toStatus(err)
	}
	products, err := s.service.ListProducts(ctx, page)
	if err != nil {
		return nil, toStatus(err)
	}
	return products, nil
}

func (s *Server) GetProduct(ctx context.Context, req *dto.ProductIDRequest) (*dto.ProductResponse, error) {
	if req.ID <= 0 {
		return nil, toStatus(errInvalidProductID)
	}
	product, err := s.service.GetProductByID(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return product, nil
}

// UpdateProduct reads the target from req.ID; the id itself is never updated
func (s *Server) UpdateProduct(ctx context.Context, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if req.ID <= 0 {
		return nil, toStatus(errInvalidProductID)
	}
	if err := req.Validate(); err != nil {
		return nil, toStatus(err)
	}
	product, err := s.service.UpdateProduct(ctx, req.ID, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return product, nil
}

func (s *Server) RemoveProduct(ctx context.Context, req *dto.ProductIDRequest) (*dto.ProductResponse, error) {
	if req.ID <= 0 {
		return nil, toStatus(errInvalidProductID)
	}
	product, err := s.service.RemoveProduct(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return product, nil
}

func (s *Server) ValidateProducts(ctx context.Context, req *dto.ValidateProductsRequest) (*dto.ProductListResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, toStatus(err)
	}
	products, err := s.service.ValidateProducts(ctx, req.IDs)
	if err != nil {
		return nil, toStatus(err)
	}
	return &dto.ProductListResponse{Products: products}, nil
}

// recoveryInterceptor turns a handler panic into codes.Internal
func (s *Server) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "gRPC call panicked",
				slog.String("rpc.method", info.FullMethod),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// correlationInterceptor copies the caller's correlation id into the context
func (s *Server) correlationInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(correlationIDKey); len(ids) > 0 && ids[0] != "" {
			ctx = telemetry.WithCorrelationID(ctx, ids[0])
		}
	}
	return handler(ctx, req)
}

// loggingInterceptor logs one record per call, at warn for caller errors and error otherwise
func (s *Server) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	code := status.Code(err)
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
		if code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
	}

	s.logger.Log(ctx, level, "gRPC call completed",
		slog.String("rpc.method", info.FullMethod),
		slog.String("rpc.grpc.status_code", code.String()),
		slog.String("duration", duration.String()),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
	return resp, err
}
