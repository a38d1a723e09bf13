package message

import (
	"encoding/json"
	"time"

	"github.com/getmockd/apina/internal/id"
	"github.com/getmockd/apina/pkg/value"
)

// HTTP verbs understood by the dispatcher.
const (
	VerbGet    = "GET"
	VerbHead   = "HEAD"
	VerbPost   = "POST"
	VerbPut    = "PUT"
	VerbDelete = "DELETE"
)

// Message types.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
)

// Request is an inbound operation on an object path.
type Request struct {
	Type      string
	ID        string
	Sender    string
	Recipient string
	Time      int64
	Object    string
	Verb      string
	Data      *value.Object
	Search    *value.Object
	Sort      *value.Object
}

// NewRequest creates a request stamped with the current time.
func NewRequest(verb, object string, data *value.Object) *Request {
	if data == nil {
		data = value.NewObject()
	}
	return &Request{
		Type:   TypeRequest,
		Time:   time.Now().Unix(),
		Object: object,
		Verb:   verb,
		Data:   data,
	}
}

// Payload returns the request data, never nil.
func (r *Request) Payload() *value.Object {
	if r.Data == nil {
		return value.NewObject()
	}
	return r.Data
}

type requestJSON struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Time      int64       `json:"time"`
	Object    string      `json:"object"`
	Verb      string      `json:"verb"`
	Data      value.Value `json:"data"`
	Code      int         `json:"code"`
	Search    value.Value `json:"search"`
	Sort      value.Value `json:"sort"`
}

// MarshalJSON writes the request envelope.
func (r *Request) MarshalJSON() ([]byte, error) {
	out := requestJSON{
		Type:      r.Type,
		ID:        r.ID,
		Sender:    r.Sender,
		Recipient: r.Recipient,
		Time:      r.Time,
		Object:    r.Object,
		Verb:      r.Verb,
		Data:      orEmpty(r.Data),
		Code:      200,
		Search:    orEmpty(r.Search),
		Sort:      orEmpty(r.Sort),
	}
	if r.Verb == VerbHead {
		out.Data = value.Empty()
	}
	return json.Marshal(out)
}

// Response is the dispatcher's answer to a Request.
type Response struct {
	Type      string
	ID        string
	Sender    string
	Recipient string
	Time      int64
	Object    string
	Verb      string
	Data      value.Value
	Code      int
	RequestID string
}

// NewResponseAt answers req with a fresh id. Sender and recipient are
// swapped and object, verb and request id are copied from req. The data of
// a HEAD response is always empty.
func NewResponseAt(req *Request, code int, data value.Value, now time.Time) *Response {
	if data == nil || req.Verb == VerbHead {
		data = value.Empty()
	}
	return &Response{
		Type:      TypeResponse,
		ID:        id.Short(),
		Sender:    req.Recipient,
		Recipient: req.Sender,
		Time:      now.Unix(),
		Object:    req.Object,
		Verb:      req.Verb,
		Data:      data,
		Code:      code,
		RequestID: req.ID,
	}
}

// Body returns the payload to send to the client: the data, or [] for HEAD.
func (r *Response) Body() value.Value {
	if r.Verb == VerbHead || r.Data == nil {
		return value.Empty()
	}
	return r.Data
}

type responseJSON struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Time      int64       `json:"time"`
	Object    string      `json:"object"`
	Verb      string      `json:"verb"`
	Data      value.Value `json:"data"`
	Code      int         `json:"code"`
	RequestID string      `json:"requestId"`
}

// MarshalJSON writes the response envelope.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		Type:      r.Type,
		ID:        r.ID,
		Sender:    r.Sender,
		Recipient: r.Recipient,
		Time:      r.Time,
		Object:    r.Object,
		Verb:      r.Verb,
		Data:      r.Body(),
		Code:      r.Code,
		RequestID: r.RequestID,
	})
}

func orEmpty(o *value.Object) value.Value {
	if o == nil || o.Len() == 0 {
		return value.Empty()
	}
	return o
}
