package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	ReadOnly    bool
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func idSchema(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "integer",
				"description": description,
			},
		},
		"required": []string{"id"},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Roster edits
		{
			Name:        "add_knight",
			Description: "Add a waiting knight. Power is multiplied by 1000 before storage.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Knight name",
					},
					"job": map[string]any{
						"type":        "string",
						"description": "Knight job or class",
					},
					"power": map[string]any{
						"type":        "number",
						"description": "Power as entered by the operator",
					},
				},
				"required": []string{"name", "job", "power"},
			},
		},
		{
			Name:        "add_client",
			Description: "Add a waiting client request. Power is multiplied by 1000 before storage.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Client name",
					},
					"job": map[string]any{
						"type":        "string",
						"description": "Requested job",
					},
					"power": map[string]any{
						"type":        "number",
						"description": "Requested power as entered by the operator",
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "Free-form notes",
					},
				},
				"required": []string{"name", "job", "power"},
			},
		},
		{
			Name:        "update_knight",
			Description: "Edit a knight's name, job or power. Status and relay count are unchanged.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "Knight ID",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "New name (omit to keep)",
					},
					"job": map[string]any{
						"type":        "string",
						"description": "New job (omit to keep)",
					},
					"power": map[string]any{
						"type":        "number",
						"description": "New power as entered by the operator (omit to keep)",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "update_client",
			Description: "Edit a client's name, job, power or notes. Status is unchanged.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "Client ID",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "New name (omit to keep)",
					},
					"job": map[string]any{
						"type":        "string",
						"description": "New job (omit to keep)",
					},
					"power": map[string]any{
						"type":        "number",
						"description": "New power as entered by the operator (omit to keep)",
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "New notes (omit to keep)",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_knight",
			Description: "Delete a knight in any status. Party snapshots keep their copy.",
			InputSchema: idSchema("Knight ID"),
		},
		{
			Name:        "delete_client",
			Description: "Delete a client in any status. Party snapshots keep their copy.",
			InputSchema: idSchema("Client ID"),
		},

		// Parties
		{
			Name:        "toggle_selection",
			Description: "Select or deselect a waiting knight or client for the next party",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": map[string]any{
						"type":        "string",
						"description": "Which roster the id belongs to",
						"enum":        []string{"knight", "client"},
					},
					"id": map[string]any{
						"type":        "integer",
						"description": "Knight or client ID",
					},
				},
				"required": []string{"kind", "id"},
			},
		},
		{
			Name:        "form_party",
			Description: "Bind every selected knight and client into a new party",
			InputSchema: emptySchema(),
		},
		{
			Name:        "complete_mission",
			Description: "Complete a party's mission: knights return to waiting with one more relay, clients become completed, the party is removed",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"party_id": map[string]any{
						"type":        "integer",
						"description": "Party ID",
					},
				},
				"required": []string{"party_id"},
			},
		},
		{
			Name:        "toggle_knight_duty",
			Description: "Move a knight between waiting and off duty. Knights in a party are unchanged.",
			InputSchema: idSchema("Knight ID"),
		},

		// Roster text
		{
			Name:        "export_knight_roster",
			Description: "Export every knight as name:job:power:relayCount lines",
			InputSchema: emptySchema(),
			ReadOnly:    true,
		},
		{
			Name:        "import_knight_roster",
			Description: "Import knights from name:job:power:relayCount lines. Imported knights are off duty; malformed lines are skipped.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"roster": map[string]any{
						"type":        "string",
						"description": "Roster text, one knight per line",
					},
				},
				"required": []string{"roster"},
			},
		},

		// Orientation
		{
			Name:        "get_roster",
			Description: "Get knights, clients and live parties in display order, with the current selection",
			InputSchema: emptySchema(),
			ReadOnly:    true,
		},
		{
			Name:        "get_recent_activity",
			Description: "Get recent roster commands, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subject_id": map[string]any{
						"type":        "integer",
						"description": "Knight, client or party ID to filter by",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Activity type to filter by",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of activity entries",
					},
				},
			},
			ReadOnly: true,
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		tool := &sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
		if def.ReadOnly {
			tool.Annotations = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}
		}
		name := def.Name
		server.AddTool(tool, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				logger.Debug("tool call failed", "tool", name, "error", err)
				return errorResult(err), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
	data, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
