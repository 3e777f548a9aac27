package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/stockpicker-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
	"github.com/simaogato/stockpicker-backend/internal/usecase/portfolio"
)

const testToken = "test-token"

// startServer runs a PortfolioService over an in-memory listener and returns a client
func startServer(t *testing.T) *PortfolioServiceClient {
	t.Helper()

	service := portfolio.NewPortfolioService(memory.NewAssetRepository(), allocator.New(allocator.DefaultConfig()))

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zap.NewNop().Sugar()),
		AuthInterceptor(testToken),
	))
	RegisterPortfolioServiceServer(server, NewServer(service))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPortfolioServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func mustStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestServer_Optimize_InlineAssets(t *testing.T) {
	client := startServer(t)

	resp, err := client.Call(authed(), MethodOptimize, mustStruct(t, map[string]interface{}{
		"budget": "30",
		"assets": []interface{}{
			map[string]interface{}{"symbol": "A", "price": "10", "expected_return": "10"},
			map[string]interface{}{"symbol": "B", "price": 15, "expected_return": 20},
		},
	}))

	require.NoError(t, err)
	fields := resp.GetFields()
	assert.Equal(t, "30", fields["total_investment"].GetStringValue())
	assert.Equal(t, "0", fields["remaining_budget"].GetStringValue())
	assert.Equal(t, "6", fields["objective_value"].GetStringValue())
	assert.Equal(t, "knapsack", fields["method"].GetStringValue())

	lines := fields["lines"].GetListValue().GetValues()
	require.Len(t, lines, 1)
	line := lines[0].GetStructValue().GetFields()
	assert.Equal(t, "B", line["symbol"].GetStringValue())
	assert.Equal(t, float64(2), line["quantity"].GetNumberValue())
	assert.Equal(t, "6", line["total_return_value"].GetStringValue())
}

func TestServer_CatalogueLifecycle(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	added, err := client.Call(ctx, MethodAddAsset, mustStruct(t, map[string]interface{}{
		"symbol": "A", "price": "100", "expected_return": "10",
	}))
	require.NoError(t, err)
	id := added.GetFields()["id"].GetStringValue()
	require.NotEmpty(t, id)

	updated, err := client.Call(ctx, MethodUpdateAsset, mustStruct(t, map[string]interface{}{
		"id": id, "expected_return": "12.5",
	}))
	require.NoError(t, err)
	assert.Equal(t, "12.5", updated.GetFields()["expected_return"].GetStringValue())
	assert.Equal(t, "100", updated.GetFields()["price"].GetStringValue())

	listed, err := client.Call(ctx, MethodListAssets, &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, listed.GetFields()["assets"].GetListValue().GetValues(), 1)

	// No "assets" field: the stored catalogue is optimised
	result, err := client.Call(ctx, MethodOptimize, mustStruct(t, map[string]interface{}{"budget": "250"}))
	require.NoError(t, err)
	assert.Equal(t, "200", result.GetFields()["total_investment"].GetStringValue())
	assert.Equal(t, "50", result.GetFields()["remaining_budget"].GetStringValue())
	assert.Equal(t, "25", result.GetFields()["objective_value"].GetStringValue())

	_, err = client.Call(ctx, MethodRemoveAsset, mustStruct(t, map[string]interface{}{"id": id}))
	require.NoError(t, err)

	_, err = client.Call(ctx, MethodRemoveAsset, mustStruct(t, map[string]interface{}{"id": id}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_Errors(t *testing.T) {
	client := startServer(t)

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		req    map[string]interface{}
		code   codes.Code
		errMsg string
	}{
		{
			name:   "missing token",
			ctx:    context.Background(),
			method: MethodListAssets,
			req:    map[string]interface{}{},
			code:   codes.Unauthenticated,
		},
		{
			name:   "negative budget",
			ctx:    authed(),
			method: MethodOptimize,
			req:    map[string]interface{}{"budget": "-1", "assets": []interface{}{}},
			code:   codes.InvalidArgument,
			errMsg: "invalid budget",
		},
		{
			name:   "non-numeric budget",
			ctx:    authed(),
			method: MethodOptimize,
			req:    map[string]interface{}{"budget": "lots"},
			code:   codes.InvalidArgument,
			errMsg: "not a number",
		},
		{
			name:   "budget with a huge negative exponent",
			ctx:    authed(),
			method: MethodOptimize,
			req:    map[string]interface{}{"budget": "1e-20000000", "assets": []interface{}{}},
			code:   codes.InvalidArgument,
			errMsg: "out of range",
		},
		{
			name:   "budget too large as a number",
			ctx:    authed(),
			method: MethodOptimize,
			req:    map[string]interface{}{"budget": 1e300},
			code:   codes.InvalidArgument,
			errMsg: "out of range",
		},
		{
			name:   "price with a huge exponent",
			ctx:    authed(),
			method: MethodOptimize,
			req: map[string]interface{}{
				"budget": "100",
				"assets": []interface{}{
					map[string]interface{}{"symbol": "BIG", "price": "1e20000000", "expected_return": "1"},
				},
			},
			code:   codes.InvalidArgument,
			errMsg: `price "1e20000000" out of range`,
		},
		{
			name:   "invalid asset is identified",
			ctx:    authed(),
			method: MethodOptimize,
			req: map[string]interface{}{
				"budget": "100",
				"assets": []interface{}{
					map[string]interface{}{"symbol": "OK", "price": "10", "expected_return": "1"},
					map[string]interface{}{"symbol": "BAD", "price": "0", "expected_return": "1"},
				},
			},
			code:   codes.InvalidArgument,
			errMsg: `invalid asset #1 ("BAD")`,
		},
		{
			name:   "assets not a list",
			ctx:    authed(),
			method: MethodOptimize,
			req:    map[string]interface{}{"budget": "100", "assets": "AAPL"},
			code:   codes.InvalidArgument,
			errMsg: "assets must be a list",
		},
		{
			name:   "bad id",
			ctx:    authed(),
			method: MethodRemoveAsset,
			req:    map[string]interface{}{"id": "nope"},
			code:   codes.InvalidArgument,
			errMsg: "invalid id format",
		},
		{
			name:   "unknown id",
			ctx:    authed(),
			method: MethodUpdateAsset,
			req:    map[string]interface{}{"id": "00000000-0000-0000-0000-0000000000ff", "price": "5"},
			code:   codes.NotFound,
		},
		{
			name:   "add with empty symbol",
			ctx:    authed(),
			method: MethodAddAsset,
			req:    map[string]interface{}{"symbol": "", "price": "5", "expected_return": "1"},
			code:   codes.InvalidArgument,
			errMsg: "symbol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Call(tt.ctx, tt.method, mustStruct(t, tt.req))

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Contains(t, st.Message(), tt.errMsg)
		})
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.Equal(t, codes.Canceled, status.Code(mapError(context.Canceled)))
	assert.Equal(t, codes.Internal, status.Code(mapError(assert.AnError)))

	already := status.Error(codes.PermissionDenied, "nope")
	assert.Equal(t, already, mapError(already))
}
