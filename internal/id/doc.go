// Package id provides identifier generation for apina.
//
//   - Short: 16-character hex ids for response messages and for objects
//     created without a key attribute
//   - Request: UUID v4 ids for inbound HTTP requests that carry none
//
// All ids use crypto/rand for randomness.
package id
