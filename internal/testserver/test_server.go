package testserver

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/mcp"
	"github.com/rpggio/knightbus/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// TestServer is a fully wired knightbus stack reachable through an MCP
// client session over in-memory transports.
type TestServer struct {
	DB       *sqlite.DB
	Roster   *roster.Service
	Activity *activity.Service
	Session  *sdkmcp.ClientSession
}

func New(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	rosterSvc := roster.NewService(
		sqlite.NewKnightRepository(db),
		sqlite.NewClientRepository(db),
		sqlite.NewPartyRepository(db),
		activitySvc,
		nil,
	)

	server := mcp.NewServer(mcp.Config{
		Roster:   rosterSvc,
		Activity: activitySvc,
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "knightbus-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
		_ = db.Close()
	})

	return &TestServer{
		DB:       db,
		Roster:   rosterSvc,
		Activity: activitySvc,
		Session:  session,
	}
}

// Call invokes a tool and returns its text payload and error flag.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any) (string, bool) {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	res, err := ts.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

// CallJSON invokes a tool that must succeed and decodes its payload into out.
func (ts *TestServer) CallJSON(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()

	text, isErr := ts.Call(t, name, args)
	require.False(t, isErr, "tool %s failed: %s", name, text)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text), out))
	}
}

// CallError invokes a tool that must fail and returns its error code.
func (ts *TestServer) CallError(t *testing.T, name string, args map[string]any) string {
	t.Helper()

	text, isErr := ts.Call(t, name, args)
	require.True(t, isErr, "tool %s unexpectedly succeeded: %s", name, text)

	var apiErr mcp.APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	return apiErr.Code
}
