// Package value provides the closed set of JSON-representable values that
// flow through apina: stored object fields, request payloads and response
// bodies.
//
// Core Types:
//
//   - Value: sealed interface implemented by String, Int, Float, Bool, Null,
//     List and *Object
//   - Object: an insertion-ordered string-keyed map, used for every stored
//     object and every JSON object payload
//   - Kind: the value types a resource schema can declare
//
// Numbers are decoded without loss: integral literals that fit in int64 become
// Int, every other number becomes Float. This mirrors the distinction a schema
// draws between "int" and "float" attributes.
//
// Type inference (Infer) never yields KindHref or KindHrefList; those kinds can
// be declared by a schema but are not derivable from a runtime value.
package value
