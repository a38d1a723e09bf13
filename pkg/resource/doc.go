// Package resource implements the schema-driven resource model.
//
// A resource type is registered by storing a schema object at
// "/resource/<type>". Each schema attribute names a value type and an
// address telling where the value lives:
//
//   - meta:<field>  a field of the stored object
//   - file:<path>   a blob under the configured blob root
//   - add:<field>   append to a list field
//   - rem:<field>   remove every equal element from a list field
//
// Resource is a transient view over one object ("/<type>/<id>") that
// validates incoming payloads against the schema, generates ids from key
// attributes, and writes through to a storage.Store.
//
// Payload problems are reported as *ValidationError and recorded as the
// resource's last error. Storage and blob failures are returned as plain
// errors and must abort the operation.
package resource
