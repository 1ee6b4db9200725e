package grpc

import (
	"context"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/Muhammaduzair321/ip-checker/internal/gate"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

type Server struct {
	svc *gate.Service
}

func NewServer(svc *gate.Service) *Server {
	return &Server{svc: svc}
}

// MaxInputLen bounds a single submission.
const MaxInputLen = 2048

func (s *Server) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	raw, err := checkInput(req.Input)
	if err != nil {
		return nil, err
	}

	res := s.svc.Submit(ctx, raw)
	return &SubmitResponse{
		Status:    string(res.Status),
		Canonical: res.Canonical,
		Hosts:     res.Hosts,
		Reason:    string(res.Reason),
	}, nil
}

func (s *Server) List(ctx context.Context, _ *ListRequest) (*ListResponse, error) {
	return &ListResponse{Hosts: s.svc.Recent()}, nil
}

func (s *Server) Normalize(ctx context.Context, req *NormalizeRequest) (*NormalizeResponse, error) {
	raw, err := checkInput(req.Input)
	if err != nil {
		return nil, err
	}
	return &NormalizeResponse{Canonical: s.svc.Normalize(raw)}, nil
}

func checkInput(raw string) (string, error) {
	if len(raw) > MaxInputLen {
		return "", status.Error(codes.InvalidArgument, "input is too long")
	}
	return strings.TrimSpace(raw), nil
}

// newGRPCServer registers the ledger, health and reflection services.
// Reflection lists iplog.HostLedger, but the JSON-coded service has no
// file descriptor, so only the health service is fully describable.
func newGRPCServer(svc *gate.Service) (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	RegisterHostLedgerServer(s, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s, hs
}

// RunGRPCServer starts a gRPC server on the given address and
// shuts it down gracefully when the context is canceled.
func RunGRPCServer(ctx context.Context, addr string, svc *gate.Service, log logger.Logger) error {
	if addr == "" {
		// Reasonable default if nothing is provided.
		addr = ":9090"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s, hs := newGRPCServer(svc)

	// Stop the server once the context is done (SIGTERM, timeout, etc.).
	go func() {
		<-ctx.Done()
		hs.Shutdown()
		s.GracefulStop()
	}()

	log.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.Serve(lis)
}
