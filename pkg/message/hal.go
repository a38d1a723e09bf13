package message

import "github.com/getmockd/apina/pkg/value"

// HAL wraps data in a HAL resource object: "_links" first, then
// "_embedded", each only when non-empty, followed by the fields of data
// that do not collide with them.
func HAL(data, links, embedded *value.Object) *value.Object {
	out := value.NewObject()
	if links.Len() > 0 {
		out.Set("_links", links)
	}
	if embedded.Len() > 0 {
		out.Set("_embedded", embedded)
	}
	data.Range(func(k string, v value.Value) bool {
		if !out.Has(k) {
			out.Set(k, v)
		}
		return true
	})
	return out
}

// Link returns {"href": href}.
func Link(href string) *value.Object {
	l := value.NewObject()
	l.Set("href", value.String(href))
	return l
}

// SelfLinks returns {"self": {"href": href}}.
func SelfLinks(href string) *value.Object {
	links := value.NewObject()
	links.Set("self", Link(href))
	return links
}

// ErrorBody returns {"error": {"message": msg}}.
func ErrorBody(msg string) *value.Object {
	e := value.NewObject()
	e.Set("message", value.String(msg))
	body := value.NewObject()
	body.Set("error", e)
	return body
}

// Hrefs converts a list of object ids to a List of strings.
func Hrefs(ids []string) value.List {
	out := make(value.List, len(ids))
	for i, s := range ids {
		out[i] = value.String(s)
	}
	return out
}
