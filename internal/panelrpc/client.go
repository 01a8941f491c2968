package panelrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bayleafwalker/bindery-panel/internal/presenter"
)

// Client calls the ModulePanel service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ListResult is the decoded ListModules response.
type ListResult struct {
	Modules    []presenter.ModuleRecord `json:"modules"`
	Unresolved []UnresolvedRecord       `json:"unresolved,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
}

func (c *Client) ListModules(ctx context.Context, namespace string, opts ...grpc.CallOption) (ListResult, error) {
	req, err := structpb.NewStruct(map[string]any{fieldNamespace: namespace})
	if err != nil {
		return ListResult{}, err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListModulesMethod, req, resp, opts...); err != nil {
		return ListResult{}, err
	}
	var out ListResult
	if err := fromStruct(resp, &out); err != nil {
		return ListResult{}, fmt.Errorf("decode %s response: %w", ListModulesMethod, err)
	}
	return out, nil
}

func (c *Client) GetModule(ctx context.Context, namespace string, id int64, opts ...grpc.CallOption) (presenter.ModuleRecord, error) {
	req, err := structpb.NewStruct(map[string]any{
		fieldNamespace: namespace,
		fieldModuleID:  float64(id),
	})
	if err != nil {
		return presenter.ModuleRecord{}, err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetModuleMethod, req, resp, opts...); err != nil {
		return presenter.ModuleRecord{}, err
	}
	var out getResponse
	if err := fromStruct(resp, &out); err != nil {
		return presenter.ModuleRecord{}, fmt.Errorf("decode %s response: %w", GetModuleMethod, err)
	}
	return out.Module, nil
}
