// Package cli provides the command-line interface for apina.
//
// Commands:
//   - serve: run the HTTP server over the configured storage
//   - call: send one request to the storage without a server
//   - version: show apina version
//
// Every command reads the same configuration: defaults, then the file given
// with --config, then APINA_* environment variables, then flags.
//
// Usage:
//
//	apina serve --listen :8080 --storage sqlite --storage-path data/apina.db
//	apina serve --config apina.yaml --schemas schemas.yaml
//	apina call PUT /resource/gallery '{"folder": {"source": "meta:folder", "type": "string", "key": true}}'
//	apina call GET /gallery
package cli
