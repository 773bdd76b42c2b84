// Package rpc exposes the catalog service over gRPC.
//
// Messages are the JSON DTOs of the app layer, so the service descriptor is
// declared here instead of being generated from a proto file.
package rpc

import (
	"context"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"google.golang.org/grpc"
)

const ServiceName = "products.v1.CatalogService"

const (
	MethodCreateProduct    = "CreateProduct"
	MethodListProducts     = "ListProducts"
	MethodGetProduct       = "GetProduct"
	MethodUpdateProduct    = "UpdateProduct"
	MethodRemoveProduct    = "RemoveProduct"
	MethodValidateProducts = "ValidateProducts"
)

// CatalogServer is the server API of the catalog service.
// UpdateProduct takes the target id embedded in the payload.
type CatalogServer interface {
	CreateProduct(context.Context, *dto.CreateProductRequest) (*dto.ProductResponse, error)
	ListProducts(context.Context, *dto.PaginationRequest) (*dto.PaginatedProducts, error)
	GetProduct(context.Context, *dto.ProductIDRequest) (*dto.ProductResponse, error)
	UpdateProduct(context.Context, *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	RemoveProduct(context.Context, *dto.ProductIDRequest) (*dto.ProductResponse, error)
	ValidateProducts(context.Context, *dto.ValidateProductsRequest) (*dto.ProductListResponse, error)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RegisterCatalogServer registers srv on s
func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCreateProduct, Handler: unary(MethodCreateProduct, CatalogServer.CreateProduct)},
		{MethodName: MethodListProducts, Handler: unary(MethodListProducts, CatalogServer.ListProducts)},
		{MethodName: MethodGetProduct, Handler: unary(MethodGetProduct, CatalogServer.GetProduct)},
		{MethodName: MethodUpdateProduct, Handler: unary(MethodUpdateProduct, CatalogServer.UpdateProduct)},
		{MethodName: MethodRemoveProduct, Handler: unary(MethodRemoveProduct, CatalogServer.RemoveProduct)},
		{MethodName: MethodValidateProducts, Handler: unary(MethodValidateProducts, CatalogServer.ValidateProducts)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "products/v1/catalog.json",
}

// unary adapts a typed CatalogServer method to a gRPC method handler
func unary[Req, Resp any](method string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
