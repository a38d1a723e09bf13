// Package util provides shared helpers for safe file-path validation and
// log-body truncation used across apina packages.
//
//   - SafeFilePath / SafeFilePathAllowAbsolute: reject path-traversal attempts
//   - TruncateBody: cap serialized messages for safe logging
package util
