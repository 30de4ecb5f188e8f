package explore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "explore.ExploreService"

const (
	ExploreService_FindCompatible_FullMethodName    = "/" + ServiceName + "/FindCompatible"
	ExploreService_Like_FullMethodName              = "/" + ServiceName + "/Like"
	ExploreService_IsMutual_FullMethodName          = "/" + ServiceName + "/IsMutual"
	ExploreService_ListLikedYou_FullMethodName      = "/" + ServiceName + "/ListLikedYou"
	ExploreService_ListNewLikedYou_FullMethodName   = "/" + ServiceName + "/ListNewLikedYou"
	ExploreService_CountLikedYou_FullMethodName     = "/" + ServiceName + "/CountLikedYou"
	ExploreService_MarkViewed_FullMethodName        = "/" + ServiceName + "/MarkViewed"
	ExploreService_ListMatches_FullMethodName       = "/" + ServiceName + "/ListMatches"
	ExploreService_RecomputePriority_FullMethodName = "/" + ServiceName + "/RecomputePriority"
	ExploreService_GetPriority_FullMethodName       = "/" + ServiceName + "/GetPriority"
)

// ExploreServiceServer is the server API for ExploreService.
type ExploreServiceServer interface {
	FindCompatible(context.Context, *FindCompatibleRequest) (*FindCompatibleResponse, error)
	Like(context.Context, *LikeRequest) (*LikeResponse, error)
	IsMutual(context.Context, *IsMutualRequest) (*IsMutualResponse, error)
	ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	ListNewLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
	MarkViewed(context.Context, *MarkViewedRequest) (*MarkViewedResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	RecomputePriority(context.Context, *RecomputePriorityRequest) (*RecomputePriorityResponse, error)
	GetPriority(context.Context, *GetPriorityRequest) (*GetPriorityResponse, error)
}

// UnimplementedExploreServiceServer answers codes.Unimplemented for every
// method. Embed it to stay forward compatible.
type UnimplementedExploreServiceServer struct{}

func (UnimplementedExploreServiceServer) FindCompatible(context.Context, *FindCompatibleRequest) (*FindCompatibleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindCompatible not implemented")
}
func (UnimplementedExploreServiceServer) Like(context.Context, *LikeRequest) (*LikeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Like not implemented")
}
func (UnimplementedExploreServiceServer) IsMutual(context.Context, *IsMutualRequest) (*IsMutualResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsMutual not implemented")
}
func (UnimplementedExploreServiceServer) ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) ListNewLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNewLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CountLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) MarkViewed(context.Context, *MarkViewedRequest) (*MarkViewedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkViewed not implemented")
}
func (UnimplementedExploreServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedExploreServiceServer) RecomputePriority(context.Context, *RecomputePriorityRequest) (*RecomputePriorityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecomputePriority not implemented")
}
func (UnimplementedExploreServiceServer) GetPriority(context.Context, *GetPriorityRequest) (*GetPriorityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPriority not implemented")
}

// RegisterExploreServiceServer attaches srv to s.
func RegisterExploreServiceServer(s grpc.ServiceRegistrar, srv ExploreServiceServer) {
	s.RegisterService(&ExploreService_ServiceDesc, srv)
}

// unary adapts one typed method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(ExploreServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExploreServiceServer), ctx, req.(*Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

// ExploreService_ServiceDesc is the grpc.ServiceDesc for ExploreService.
var ExploreService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExploreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindCompatible", Handler: unary(ExploreService_FindCompatible_FullMethodName, ExploreServiceServer.FindCompatible)},
		{MethodName: "Like", Handler: unary(ExploreService_Like_FullMethodName, ExploreServiceServer.Like)},
		{MethodName: "IsMutual", Handler: unary(ExploreService_IsMutual_FullMethodName, ExploreServiceServer.IsMutual)},
		{MethodName: "ListLikedYou", Handler: unary(ExploreService_ListLikedYou_FullMethodName, ExploreServiceServer.ListLikedYou)},
		{MethodName: "ListNewLikedYou", Handler: unary(ExploreService_ListNewLikedYou_FullMethodName, ExploreServiceServer.ListNewLikedYou)},
		{MethodName: "CountLikedYou", Handler: unary(ExploreService_CountLikedYou_FullMethodName, ExploreServiceServer.CountLikedYou)},
		{MethodName: "MarkViewed", Handler: unary(ExploreService_MarkViewed_FullMethodName, ExploreServiceServer.MarkViewed)},
		{MethodName: "ListMatches", Handler: unary(ExploreService_ListMatches_FullMethodName, ExploreServiceServer.ListMatches)},
		{MethodName: "RecomputePriority", Handler: unary(ExploreService_RecomputePriority_FullMethodName, ExploreServiceServer.RecomputePriority)},
		{MethodName: "GetPriority", Handler: unary(ExploreService_GetPriority_FullMethodName, ExploreServiceServer.GetPriority)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "explore.proto",
}

// ExploreServiceClient is the client API for ExploreService.
type ExploreServiceClient interface {
	FindCompatible(ctx context.Context, in *FindCompatibleRequest, opts ...grpc.CallOption) (*FindCompatibleResponse, error)
	Like(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*LikeResponse, error)
	IsMutual(ctx context.Context, in *IsMutualRequest, opts ...grpc.CallOption) (*IsMutualResponse, error)
	ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error)
	ListNewLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error)
	CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error)
	MarkViewed(ctx context.Context, in *MarkViewedRequest, opts ...grpc.CallOption) (*MarkViewedResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	RecomputePriority(ctx context.Context, in *RecomputePriorityRequest, opts ...grpc.CallOption) (*RecomputePriorityResponse, error)
	GetPriority(ctx context.Context, in *GetPriorityRequest, opts ...grpc.CallOption) (*GetPriorityResponse, error)
}

type exploreServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewExploreServiceClient returns a client that always selects the JSON codec.
func NewExploreServiceClient(cc grpc.ClientConnInterface) ExploreServiceClient {
	return &exploreServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) FindCompatible(ctx context.Context, in *FindCompatibleRequest, opts ...grpc.CallOption) (*FindCompatibleResponse, error) {
	return invoke[FindCompatibleResponse](ctx, c.cc, ExploreService_FindCompatible_FullMethodName, in, opts)
}

func (c *exploreServiceClient) Like(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*LikeResponse, error) {
	return invoke[LikeResponse](ctx, c.cc, ExploreService_Like_FullMethodName, in, opts)
}

func (c *exploreServiceClient) IsMutual(ctx context.Context, in *IsMutualRequest, opts ...grpc.CallOption) (*IsMutualResponse, error) {
	return invoke[IsMutualResponse](ctx, c.cc, ExploreService_IsMutual_FullMethodName, in, opts)
}

func (c *exploreServiceClient) ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return invoke[ListLikedYouResponse](ctx, c.cc, ExploreService_ListLikedYou_FullMethodName, in, opts)
}

func (c *exploreServiceClient) ListNewLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return invoke[ListLikedYouResponse](ctx, c.cc, ExploreService_ListNewLikedYou_FullMethodName, in, opts)
}

func (c *exploreServiceClient) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	return invoke[CountLikedYouResponse](ctx, c.cc, ExploreService_CountLikedYou_FullMethodName, in, opts)
}

func (c *exploreServiceClient) MarkViewed(ctx context.Context, in *MarkViewedRequest, opts ...grpc.CallOption) (*MarkViewedResponse, error) {
	return invoke[MarkViewedResponse](ctx, c.cc, ExploreService_MarkViewed_FullMethodName, in, opts)
}

func (c *exploreServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return invoke[ListMatchesResponse](ctx, c.cc, ExploreService_ListMatches_FullMethodName, in, opts)
}

func (c *exploreServiceClient) RecomputePriority(ctx context.Context, in *RecomputePriorityRequest, opts ...grpc.CallOption) (*RecomputePriorityResponse, error) {
	return invoke[RecomputePriorityResponse](ctx, c.cc, ExploreService_RecomputePriority_FullMethodName, in, opts)
}

func (c *exploreServiceClient) GetPriority(ctx context.Context, in *GetPriorityRequest, opts ...grpc.CallOption) (*GetPriorityResponse, error) {
	return invoke[GetPriorityResponse](ctx, c.cc, ExploreService_GetPriority_FullMethodName, in, opts)
}
