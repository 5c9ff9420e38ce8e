package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	catalogServiceName    = "catalog.CatalogService"
	receiveFullMethod     = "/" + catalogServiceName + "/Receive"
	renderFullMethod      = "/" + catalogServiceName + "/Render"
	catalogContentSubtype = "json"
)

type ReceiveRequest struct {
	RequestID string `json:"request_id"`
	SKU       string `json:"sku"`
	Quantity  int32  `json:"quantity"`
}

type ReceiveResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Quantity int64  `json:"quantity"`
}

type RenderRequest struct {
	SKU     string `json:"sku"`
	Verbose bool   `json:"verbose"`
}

type RenderResponse struct {
	Text string `json:"text"`
}

func (x *ReceiveRequest) GetRequestID() string {
	if x != nil {
		return x.RequestID
	}
	return ""
}

func (x *ReceiveRequest) GetSKU() string {
	if x != nil {
		return x.SKU
	}
	return ""
}

func (x *ReceiveRequest) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *RenderRequest) GetSKU() string {
	if x != nil {
		return x.SKU
	}
	return ""
}

func (x *RenderRequest) GetVerbose() bool {
	if x != nil {
		return x.Verbose
	}
	return false
}

// CatalogServer is the server API for catalog.CatalogService.
type CatalogServer interface {
	Receive(context.Context, *ReceiveRequest) (*ReceiveResponse, error)
	Render(context.Context, *RenderRequest) (*RenderResponse, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Receive", Handler: receiveHandler},
		{MethodName: "Render", Handler: renderHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func receiveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReceiveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).Receive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: receiveFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).Receive(ctx, req.(*ReceiveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func renderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RenderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).Render(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: renderFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).Render(ctx, req.(*RenderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls catalog.CatalogService over a client connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) Receive(ctx context.Context, in *ReceiveRequest, opts ...grpc.CallOption) (*ReceiveResponse, error) {
	out := new(ReceiveResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(catalogContentSubtype)}, opts...)
	if err := c.cc.Invoke(ctx, receiveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) Render(ctx context.Context, in *RenderRequest, opts ...grpc.CallOption) (*RenderResponse, error) {
	out := new(RenderResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(catalogContentSubtype)}, opts...)
	if err := c.cc.Invoke(ctx, renderFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
