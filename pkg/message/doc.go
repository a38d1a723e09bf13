// Package message defines the request and response messages exchanged
// with the dispatcher, plus helpers for the HAL-style payloads it returns.
//
// A message serializes as
//
//	{"type", "id", "sender", "recipient", "time", "object", "verb", "data", "code", ...}
//
// with "search" and "sort" added on requests and "requestId" on responses.
// A HEAD message always serializes its data as [].
package message
