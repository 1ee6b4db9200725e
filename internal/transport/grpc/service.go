package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "iplog.HostLedger"

type SubmitRequest struct {
	Input string `json:"input"`
}

type SubmitResponse struct {
	Status    string   `json:"status"`
	Canonical string   `json:"canonical,omitempty"`
	Hosts     []string `json:"hosts"`
	Reason    string   `json:"reason,omitempty"`
}

type ListRequest struct{}

type ListResponse struct {
	Hosts []string `json:"hosts"`
}

type NormalizeRequest struct {
	Input string `json:"input"`
}

type NormalizeResponse struct {
	Canonical string `json:"canonical"`
}

// HostLedgerServer is the server API for the iplog.HostLedger service.
type HostLedgerServer interface {
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Normalize(context.Context, *NormalizeRequest) (*NormalizeResponse, error)
}

func RegisterHostLedgerServer(s grpc.ServiceRegistrar, srv HostLedgerServer) {
	s.RegisterService(&hostLedgerServiceDesc, srv)
}

var hostLedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HostLedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "List", Handler: listHandler},
		{MethodName: "Normalize", Handler: normalizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "iplog/host_ledger",
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostLedgerServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Submit"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HostLedgerServer).Submit(ctx, req.(*SubmitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostLedgerServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/List"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HostLedgerServer).List(ctx, req.(*ListRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func normalizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NormalizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostLedgerServer).Normalize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Normalize"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HostLedgerServer).Normalize(ctx, req.(*NormalizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// HostLedgerClient is the client API for the iplog.HostLedger service.
type HostLedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewHostLedgerClient(cc grpc.ClientConnInterface) *HostLedgerClient {
	return &HostLedgerClient{cc: cc}
}

func (c *HostLedgerClient) Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	out := new(SubmitResponse)
	if err := c.invoke(ctx, "Submit", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HostLedgerClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.invoke(ctx, "List", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HostLedgerClient) Normalize(ctx context.Context, in *NormalizeRequest, opts ...grpc.CallOption) (*NormalizeResponse, error) {
	out := new(NormalizeResponse)
	if err := c.invoke(ctx, "Normalize", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HostLedgerClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}
