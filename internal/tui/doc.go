// Package tui implements the operator console using Bubble Tea.
//
// The Model is a small state machine. StateBrowse shows three panes
// (knights, clients, parties) side by side; the other states are overlays
// for editing a member, confirming a destructive command, showing an export
// that could not reach the clipboard, and pasting a roster to import.
//
// Every roster command runs as a tea.Cmd against the roster service and
// reports back with a resultMsg, after which the snapshot is reloaded:
//
//	runCommand()  → resultMsg    → loadSnapshot()
//	exportRoster() → exportedMsg
//	loadSnapshot() → snapshotMsg
package tui
