package handler

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stock-catalog/internal/core/service"
	"github.com/rl1809/stock-catalog/internal/port"
)

type GRPCHandler struct {
	catalog *service.CatalogService
}

func NewGRPCHandler(catalog *service.CatalogService) *GRPCHandler {
	return &GRPCHandler{catalog: catalog}
}

func (h *GRPCHandler) Receive(ctx context.Context, req *ReceiveRequest) (*ReceiveResponse, error) {
	if req.GetRequestID() == "" || req.GetSKU() == "" || req.GetQuantity() <= 0 {
		return &ReceiveResponse{
			Success: false,
			Message: "missing required fields",
		}, nil
	}

	item, err := h.catalog.Receive(ctx, req.GetRequestID(), req.GetSKU(), int(req.GetQuantity()))
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRequest) {
			return &ReceiveResponse{
				Success: false,
				Message: "duplicate request",
			}, nil
		}
		if errors.Is(err, service.ErrNotFound) {
			return &ReceiveResponse{
				Success: false,
				Message: "record not found",
			}, nil
		}
		if errors.Is(err, port.ErrOptimisticLock) {
			return &ReceiveResponse{
				Success: false,
				Message: "record busy, retry",
			}, nil
		}
		return &ReceiveResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	return &ReceiveResponse{
		Success:  true,
		Message:  "stock received",
		Quantity: int64(item.Quantity()),
	}, nil
}

func (h *GRPCHandler) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	var sb strings.Builder
	if err := h.catalog.Render(ctx, req.GetSKU(), &sb, req.GetVerbose()); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, status.Errorf(codes.NotFound, "record %q not found", req.GetSKU())
		}
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &RenderResponse{Text: sb.String()}, nil
}
