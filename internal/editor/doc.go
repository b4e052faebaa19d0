// Package editor implements the interactive pixel editor behind an editing
// session: the tool state machine, lasso selection, the crop box, undo
// history, and PNG export.
//
// # Pointer Model
//
// Callers feed pointer events to an Engine in canvas pixel coordinates:
//
//	OnPress(pt, button) -> OnMove(pt)... -> OnRelease(pt)
//
// Each call returns an Effects value describing what changed. Coordinates
// outside the canvas are accepted; drawing simply clips.
//
// # History
//
// Every committing operation (a finished stroke or shape, a fill that
// changed pixels, a confirmed crop, adding or deleting a layer, placing or
// cutting lasso content) stores exactly one snapshot of the whole layer
// stack. Snapshots are deep copies, and at most DefaultHistoryLimit are
// kept.
//
// # Thread Safety
//
// An Engine is owned by a single caller. Nothing in this package locks.
package editor
