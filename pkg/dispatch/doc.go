// Package dispatch turns request messages into operations on the resource
// model and answers them with response messages.
//
// Routing depends only on the verb and the object path:
//
//	GET|HEAD /             links to every registered type
//	DELETE   /             delete every object
//	GET|HEAD /type/id      the stored object in a HAL envelope
//	GET|HEAD /type         hrefs of every object of the type
//	POST|PUT /type[/id]    validate and write the payload
//	DELETE   /type/id      delete one object
//	DELETE   /type         delete every object of the type and its schema
//
// Requests are processed one at a time. Validation and lookup failures
// become 4xx responses; storage failures abort the request, undo its
// writes and are returned as errors.
package dispatch
