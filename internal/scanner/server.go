package scanner

import (
	"context"
	"fmt"
	"net"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "scanbiz.scan.ScanService"
	ScanMethod  = "/" + ServiceName + "/Scan"
)

// Extractor does the actual recognition work behind a Server.
type Extractor interface {
	Extract(ctx context.Context, req Request) (models.ScanResult, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, req Request) (models.ScanResult, error)

func (f ExtractorFunc) Extract(ctx context.Context, req Request) (models.ScanResult, error) {
	return f(ctx, req)
}

type ctxKey string

const clientIDKey ctxKey = "clientID"

// ClientIDFromContext returns the authenticated client id set by the server
// interceptor.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok
}

type scanServer interface {
	scan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*scanServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Scan", Handler: scanHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scanbiz/scan.proto",
}

func scanHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(scanServer).scan(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScanMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(scanServer).scan(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type Server struct {
	extractor Extractor
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(extractor Extractor, logger logging.Logger, secretKey string) *Server {
	return &Server{
		extractor: extractor,
		logger:    logger.With("module", "scan_server"),
		jwtSecret: []byte(secretKey),
	}
}

// Register attaches the scan service to r. The token check is not included;
// see NewGRPCServer.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	r.RegisterService(&serviceDesc, s)
}

// NewGRPCServer builds a grpc.Server with the access token check installed
// and the scan service registered.
func (s *Server) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	s.Register(srv)
	return srv
}

// Run serves on address until ctx is done.
func (s *Server) Run(ctx context.Context, address string) error {
	listen, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	srv := s.NewGRPCServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *Server) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if info.FullMethod != ScanMethod {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	clientID, err := ClientIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(context.WithValue(ctx, clientIDKey, clientID), req)
}

func (s *Server) scan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if !req.Mode.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown mode %q", req.Mode)
	}

	clientID, _ := ClientIDFromContext(ctx)
	result, err := s.extractor.Extract(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "extraction failed", "client", clientID, "error", err)
		return nil, status.Error(codes.Internal, "extraction failed")
	}

	out, err := resultToStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode result: %v", err))
	}
	return out, nil
}
