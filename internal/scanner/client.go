package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const tokenValidity = time.Minute

// GRPCScanner calls a remote extraction service.
type GRPCScanner struct {
	endpointURL string
	clientID    string
	secret      []byte
	timeout     time.Duration
	conn        *grpc.ClientConn
	logger      logging.Logger
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor signs a short-lived token for every call.
func (s *GRPCScanner) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, err := GenerateToken(s.clientID, s.secret, tokenValidity)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

// NewGRPCScanner connects lazily; extra dial options are appended (tests use
// them to dial a bufconn listener).
func NewGRPCScanner(endpointURL, clientID, secret string, timeout time.Duration, logger logging.Logger, opts ...grpc.DialOption) (*GRPCScanner, error) {
	s := &GRPCScanner{
		endpointURL: endpointURL,
		clientID:    clientID,
		secret:      []byte(secret),
		timeout:     timeout,
		logger:      logger.With("module", "scanner"),
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

func (s *GRPCScanner) Scan(ctx context.Context, req Request) (models.ScanResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	in, err := requestToStruct(req)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("encode request: %w", err)
	}

	out := &structpb.Struct{}
	start := time.Now()
	if err := s.conn.Invoke(ctx, ScanMethod, in, out); err != nil {
		s.logger.Warn(ctx, "scan failed", "endpoint", s.endpointURL, "error", err)
		return models.ScanResult{}, s.mapError(err)
	}
	s.logger.Debug(ctx, "scan done", "mode", string(req.Mode), "elapsed", time.Since(start))

	return resultFromStruct(out)
}

func (s *GRPCScanner) Close() error {
	return s.conn.Close()
}

func (s *GRPCScanner) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
