package server

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "docreview.v1.ReviewService"

// ReviewServiceServer is the server API for docreview.v1.ReviewService.
type ReviewServiceServer interface {
	Review(context.Context, *ReviewRequest) (*ReviewResponse, error)
	Submit(context.Context, *ReviewRequest) (*SubmitResponse, error)
	GetRun(context.Context, *GetRunRequest) (*GetRunResponse, error)
	ListRuns(context.Context, *ListRunsRequest) (*ListRunsResponse, error)
}

func RegisterReviewServiceServer(s grpc.ServiceRegistrar, srv ReviewServiceServer) {
	s.RegisterService(&ReviewServiceDesc, srv)
}

// unary adapts a typed method to a grpc.MethodHandler.
func unary[Req, Resp any](method string, call func(ReviewServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReviewServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ReviewServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ReviewServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ReviewServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Review", Handler: unary("Review", ReviewServiceServer.Review)},
		{MethodName: "Submit", Handler: unary("Submit", ReviewServiceServer.Submit)},
		{MethodName: "GetRun", Handler: unary("GetRun", ReviewServiceServer.GetRun)},
		{MethodName: "ListRuns", Handler: unary("ListRuns", ReviewServiceServer.ListRuns)},
	},
	Streams: []grpc.StreamDesc{},
}

// ReviewServiceClient calls the service with the JSON codec.
type ReviewServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReviewServiceClient(cc grpc.ClientConnInterface) *ReviewServiceClient {
	return &ReviewServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReviewServiceClient) Review(ctx context.Context, in *ReviewRequest, opts ...grpc.CallOption) (*ReviewResponse, error) {
	return invoke[ReviewResponse](ctx, c.cc, "Review", in, opts)
}

func (c *ReviewServiceClient) Submit(ctx context.Context, in *ReviewRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, "Submit", in, opts)
}

func (c *ReviewServiceClient) GetRun(ctx context.Context, in *GetRunRequest, opts ...grpc.CallOption) (*GetRunResponse, error) {
	return invoke[GetRunResponse](ctx, c.cc, "GetRun", in, opts)
}

func (c *ReviewServiceClient) ListRuns(ctx context.Context, in *ListRunsRequest, opts ...grpc.CallOption) (*ListRunsResponse, error) {
	return invoke[ListRunsResponse](ctx, c.cc, "ListRuns", in, opts)
}
