package panelrpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-panel/internal/presenter"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// Server implements ModulePanelServer on top of a registry source.
type Server struct {
	Source    registry.Source
	Presenter *presenter.Presenter
	// Namespace is used when a request names none. A page always covers one namespace.
	Namespace string
}

var _ ModulePanelServer = (*Server)(nil)

// UnresolvedRecord is one import the page could not wire.
type UnresolvedRecord struct {
	ConsumerID int64  `json:"consumerId"`
	Consumer   string `json:"consumer"`
	Package    string `json:"package"`
	Range      string `json:"range"`
	Optional   bool   `json:"optional,omitempty"`
	Reason     string `json:"reason"`
}

type listResponse struct {
	Modules    []presenter.ModuleRecord `json:"modules"`
	Unresolved []UnresolvedRecord       `json:"unresolved,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
}

type getResponse struct {
	Module presenter.ModuleRecord `json:"module"`
}

func (s *Server) ListModules(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, err := s.page(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := listResponse{Modules: presenter.Records(page)}
	diag := page.Wiring.Diagnostics
	for _, u := range diag.UnresolvedRequired {
		resp.Unresolved = append(resp.Unresolved, UnresolvedRecord{
			ConsumerID: u.Consumer.ID, Consumer: u.Consumer.SymbolicName,
			Package: u.Package, Range: u.Range, Reason: u.Reason,
		})
	}
	for _, u := range diag.UnresolvedOptional {
		resp.Unresolved = append(resp.Unresolved, UnresolvedRecord{
			ConsumerID: u.Consumer.ID, Consumer: u.Consumer.SymbolicName,
			Package: u.Package, Range: u.Range, Optional: true, Reason: u.Reason,
		})
	}
	for _, e := range page.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}

	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *Server) GetModule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, ok, err := int64Field(req, fieldModuleID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "%s is required", fieldModuleID)
	}

	page, err := s.page(ctx, req)
	if err != nil {
		return nil, err
	}
	v, found := presenter.Find(page, id)
	if !found {
		return nil, status.Errorf(codes.NotFound, "module %d not found", id)
	}

	out, err := toStruct(getResponse{Module: presenter.Record(page, v)})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *Server) page(ctx context.Context, req *structpb.Struct) (presenter.Page, error) {
	if req == nil {
		return presenter.Page{}, status.Error(codes.InvalidArgument, "request is nil")
	}
	ns, err := stringField(req, fieldNamespace)
	if err != nil {
		return presenter.Page{}, status.Error(codes.InvalidArgument, err.Error())
	}
	if ns == "" {
		ns = s.Namespace
	}
	if ns == "" {
		return presenter.Page{}, status.Errorf(codes.InvalidArgument, "%s is required", fieldNamespace)
	}

	logger := log.FromContext(ctx).WithValues("namespace", ns)
	snap, err := s.Source.Snapshot(ctx, ns)
	if err != nil {
		logger.Error(err, "failed to read registry snapshot")
		return presenter.Page{}, status.Errorf(codes.Unavailable, "read registry: %v", err)
	}

	p := s.Presenter
	if p == nil {
		p = presenter.New()
	}
	page, err := p.Build(ctx, snap)
	if err != nil {
		logger.Error(err, "failed to build module page")
		return presenter.Page{}, status.Errorf(codes.Internal, "build page: %v", err)
	}
	return page, nil
}

// Register adds the panel and health services to gs.
func Register(gs *grpc.Server, srv ModulePanelServer) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// Runnable serves the panel on Addr until its context is cancelled.
type Runnable struct {
	Addr   string
	Server ModulePanelServer
}

// Start implements manager.Runnable.
func (r *Runnable) Start(ctx context.Context) error {
	logger := log.FromContext(ctx).WithName("panelrpc")

	lis, err := net.Listen("tcp", r.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.Addr, err)
	}

	gs := grpc.NewServer()
	hs := Register(gs, r.Server)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving module panel", "address", lis.Addr().String())
		errCh <- gs.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		hs.Shutdown()
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("grpc serve: %w", err)
	}
}

// NeedLeaderElection reports false so every replica serves reads.
func (r *Runnable) NeedLeaderElection() bool { return false }
