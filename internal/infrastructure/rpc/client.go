package rpc

import (
	"context"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"google.golang.org/grpc"
)

// Client calls a remote catalog service. Failures that carry a catalog
// classification are returned as *domain.Error.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client over conn
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.invoke(ctx, MethodCreateProduct, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, req *dto.PaginationRequest) (*dto.PaginatedProducts, error) {
	out := new(dto.PaginatedProducts)
	if err := c.invoke(ctx, MethodListProducts, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.invoke(ctx, MethodGetProduct, &dto.ProductIDRequest{ID: id}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct sends the target id embedded in req
func (c *Client) UpdateProduct(ctx context.Context, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.invoke(ctx, MethodUpdateProduct, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.invoke(ctx, MethodRemoveProduct, &dto.ProductIDRequest{ID: id}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ValidateProducts(ctx context.Context, ids []int64) ([]*dto.ProductResponse, error) {
	out := new(dto.ProductListResponse)
	if err := c.invoke(ctx, MethodValidateProducts, &dto.ValidateProductsRequest{IDs: ids}, out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName)); err != nil {
		return fromStatus(err)
	}
	return nil
}
