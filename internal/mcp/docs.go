package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `knightbus matches knights (reusable service providers) with clients (one-shot requests) into parties.

Core concepts:
- Knight: waiting, in_party or off_duty. Relay count grows by one per completed mission.
- Client: waiting, in_party or completed. Completed is final.
- Party: a snapshot of the members selected when it was formed. Completing its mission removes it.
- Power: the number you send is multiplied by 1000 before storage.

Workflow:
1) Orient: call get_roster.
2) Select: toggle_selection on waiting knights and clients (others are ignored).
3) Bind: form_party needs at least one knight and one client selected.
4) Finish: complete_mission(party_id) releases knights and completes clients.

Errors come back as JSON with code, message and recovery_hint.

Docs:
- knightbus://docs/roster-format (export/import line format)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "knightbus://docs/roster-format",
		Name:        "roster_format",
		Title:       "Knight roster text format",
		Description: "Line format used by export_knight_roster and import_knight_roster.",
		Content: `# Knight roster format

One knight per line, four colon-separated fields:

    name:job:power:relayCount

- name, job: non-empty after trimming surrounding spaces.
- power: base-10 integer, already scaled (the stored value, not the entered one).
- relayCount: base-10 integer, zero or more.

Lines are separated by ` + "`\\n`" + `. Export writes no trailing newline.

## Import rules

- Every well-formed line becomes a new knight with a fresh id, status off_duty.
- Lines with the wrong field count or non-numeric numbers are skipped and counted.
- Blank lines are ignored.
- There is no escaping: a colon inside a name or job breaks that line.

## Example

    A:B:1000:2
    BAD_LINE
    C:D:3000:0

imports 2 knights and skips 1 line.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
