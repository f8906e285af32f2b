package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestServer(secret string, ex Extractor) *Server {
	return NewServer(ex, logging.Nop{}, secret)
}

var scanInfo = &grpc.UnaryServerInfo{FullMethod: ScanMethod}

func TestInterceptor_OtherMethodPassesThrough(t *testing.T) {
	s := newTestServer("secret", nil)

	called := false
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "ok", nil
	}
	resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, h)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, "ok", resp)
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret", nil)

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}
	_, err := s.accessTokenInterceptor(context.Background(), nil, scanInfo, h)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret", nil)

	md := metadata.New(map[string]string{common.AccessTokenHeaderName: "not-a-valid-jwt"})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}
	_, err := s.accessTokenInterceptor(ctx, nil, scanInfo, h)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_ValidTokenSetsClientID(t *testing.T) {
	s := newTestServer("super-secret", nil)

	token, err := GenerateToken("cli-7", []byte("super-secret"), time.Hour)
	require.NoError(t, err)
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var got string
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = ClientIDFromContext(ctx)
		return "ok", nil
	}
	_, err = s.accessTokenInterceptor(ctx, nil, scanInfo, h)
	require.NoError(t, err)
	require.Equal(t, "cli-7", got)
}

func TestServerScan(t *testing.T) {
	ex := ExtractorFunc(func(_ context.Context, req Request) (models.ScanResult, error) {
		if string(req.Image) == "boom" {
			return models.ScanResult{}, errors.New("ocr crashed")
		}
		return models.ScanResult{IsDoc: req.Mode == models.ScanModeText, Data: models.TextPayload(req.ContentType)}, nil
	})
	s := newTestServer("secret", ex)

	in, err := requestToStruct(Request{Mode: models.ScanModeText, Image: []byte("img"), ContentType: "image/png"})
	require.NoError(t, err)
	out, err := s.scan(context.Background(), in)
	require.NoError(t, err)
	res, err := resultFromStruct(out)
	require.NoError(t, err)
	require.True(t, res.IsDoc)
	text, ok := res.Text()
	require.True(t, ok)
	require.Equal(t, "image/png", text)

	bad, err := requestToStruct(Request{Mode: "PHOTO"})
	require.NoError(t, err)
	_, err = s.scan(context.Background(), bad)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	notBase64, err := structpb.NewStruct(map[string]any{"mode": "CARD", "image": "%%%"})
	require.NoError(t, err)
	_, err = s.scan(context.Background(), notBase64)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	crash, err := requestToStruct(Request{Mode: models.ScanModeCard, Image: []byte("boom")})
	require.NoError(t, err)
	_, err = s.scan(context.Background(), crash)
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, "127.0.0.1:0")
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret", nil)
	require.Error(t, srv.Run(context.Background(), "127.0.0.1:99999"))
}
