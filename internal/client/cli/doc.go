// Package cli provides the interactive vidkeeper command-line recorder.
//
// It wires configuration, the capture backend, a persistence bridge (in
// process or remote over gRPC) and the list controller behind a REPL.
//
// Key features:
//   - Record / Stop / Discard a clip from the camera or a fixture file
//   - Save the clip to a path chosen at the prompt, or cancel
//   - List / Select / Show / Delete saved videos
//   - Play a saved video or the unsaved clip through an external player
//   - History of save and delete outcomes from the journal
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
