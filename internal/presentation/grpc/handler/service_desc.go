package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName gRPCサービス名
const ServiceName = "ubi.v1.LedgerService"

// FullMethod メソッド名から完全なメソッドパスを返す
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AdminMethods APIキー認証で保護するメソッド
var AdminMethods = []string{
	FullMethod("RegisterAccount"),
	FullMethod("Audit"),
	FullMethod("GenerateToken"),
}

// LedgerServiceServer 台帳サービスのサーバーインターフェース。
// リクエストとレスポンスはstructpb.Structで表現する
type LedgerServiceServer interface {
	CreateCurrency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Issue(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Retire(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Open(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Close(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSupply(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetClaimWindow(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransactionHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Audit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// LedgerService_ServiceDesc 台帳サービスのサービス記述子
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateCurrency", LedgerServiceServer.CreateCurrency),
		unaryHandler("Issue", LedgerServiceServer.Issue),
		unaryHandler("Retire", LedgerServiceServer.Retire),
		unaryHandler("Transfer", LedgerServiceServer.Transfer),
		unaryHandler("Open", LedgerServiceServer.Open),
		unaryHandler("Close", LedgerServiceServer.Close),
		unaryHandler("GetSupply", LedgerServiceServer.GetSupply),
		unaryHandler("GetStats", LedgerServiceServer.GetStats),
		unaryHandler("GetBalance", LedgerServiceServer.GetBalance),
		unaryHandler("GetClaimWindow", LedgerServiceServer.GetClaimWindow),
		unaryHandler("GetTransactionHistory", LedgerServiceServer.GetTransactionHistory),
		unaryHandler("RegisterAccount", LedgerServiceServer.RegisterAccount),
		unaryHandler("Audit", LedgerServiceServer.Audit),
		unaryHandler("GenerateToken", LedgerServiceServer.GenerateToken),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ubi/v1/ledger.proto",
}

// RegisterLedgerServiceServer サーバーに台帳サービスを登録
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}
