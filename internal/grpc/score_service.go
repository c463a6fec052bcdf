package grpc

import (
	"context"
	"math"

	"cofactor-club/internal/leaderboard"
	"cofactor-club/pkg/response"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const scoreServiceName = "cofactor.club.v1.ScoreService"

// ScoreServiceServer 排行榜查询接口
// 消息体使用 google.protobuf.Struct，调用方无需生成代码
type ScoreServiceServer interface {
	GetLeaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPowerScore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Leaderboard 由 leaderboard.Service 实现
type Leaderboard interface {
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, *response.BusinessError)
	Score(ctx context.Context, userID uint) (*leaderboard.Entry, *response.BusinessError)
}

// ScoreServiceImpl implements ScoreServiceServer
type ScoreServiceImpl struct {
	board Leaderboard
}

func NewScoreServiceImpl(board Leaderboard) *ScoreServiceImpl {
	return &ScoreServiceImpl{board: board}
}

// GetLeaderboard 请求 {"limit": n}，返回 {"entries": [...]}
func (s *ScoreServiceImpl) GetLeaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := int(req.GetFields()["limit"].GetNumberValue())

	entries, bizErr := s.board.Top(ctx, limit)
	if bizErr != nil {
		return nil, toStatus(bizErr)
	}

	list := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		list = append(list, entryToMap(e))
	}
	out, err := structpb.NewStruct(map[string]interface{}{"entries": list})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// GetPowerScore 请求 {"user_id": n}，缺省时查询调用方自己
func (s *ScoreServiceImpl) GetPowerScore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := parseUserID(req)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		userID = ActorFromContext(ctx).UserID
	}
	if userID == 0 {
		return nil, status.Error(codes.Unauthenticated, "user_id is required for anonymous callers")
	}

	entry, bizErr := s.board.Score(ctx, userID)
	if bizErr != nil {
		return nil, toStatus(bizErr)
	}
	out, err := structpb.NewStruct(entryToMap(*entry))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// parseUserID 缺省返回 0；只接受正整数
func parseUserID(req *structpb.Struct) (uint, error) {
	v, ok := req.GetFields()["user_id"]
	if !ok {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue < 1 || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue > math.MaxUint32 {
		return 0, status.Error(codes.InvalidArgument, "user_id must be a positive integer")
	}
	return uint(n.NumberValue), nil
}

func entryToMap(e leaderboard.Entry) map[string]interface{} {
	return map[string]interface{}{
		"rank":        e.Rank,
		"user_id":     e.UserID,
		"name":        e.Name,
		"power_score": e.PowerScore,
	}
}

func toStatus(err error) error {
	be := response.AsBusinessError(err)
	code := codes.Internal
	switch be.Code {
	case response.NotFound:
		code = codes.NotFound
	case response.Unauthorized:
		code = codes.Unauthenticated
	case response.Forbidden:
		code = codes.PermissionDenied
	case response.InvalidParameter, response.ParseError:
		code = codes.InvalidArgument
	}
	return status.Error(code, be.Msg)
}

// ===== 手写的服务描述，对应 cofactor/club/v1/score.proto =====

func RegisterScoreServiceServer(s grpc.ServiceRegistrar, srv ScoreServiceServer) {
	s.RegisterService(&scoreServiceDesc, srv)
}

var scoreServiceDesc = grpc.ServiceDesc{
	ServiceName: scoreServiceName,
	HandlerType: (*ScoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetLeaderboard", Handler: unaryHandler("GetLeaderboard", ScoreServiceServer.GetLeaderboard)},
		{MethodName: "GetPowerScore", Handler: unaryHandler("GetPowerScore", ScoreServiceServer.GetPowerScore)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cofactor/club/v1/score.proto",
}

type scoreMethod func(ScoreServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call scoreMethod) grpc.MethodHandler {
	fullMethod := "/" + scoreServiceName + "/" + name
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ScoreServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ScoreServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ScoreClient ScoreService 客户端
type ScoreClient struct {
	cc grpc.ClientConnInterface
}

func NewScoreClient(cc grpc.ClientConnInterface) *ScoreClient {
	return &ScoreClient{cc: cc}
}

func (c *ScoreClient) GetLeaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+scoreServiceName+"/GetLeaderboard", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ScoreClient) GetPowerScore(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+scoreServiceName+"/GetPowerScore", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
