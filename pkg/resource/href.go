package resource

import "regexp"

var (
	hrefPattern = regexp.MustCompile(`^/([^/\n\r\x00]+)/?([^/\n\r\x00]+)?$`)
	attrPattern = regexp.MustCompile(`^([^:]+):(.+)$`)
)

// Ref is the (type, id) pair encoded by an href.
type Ref struct {
	Type string
	ID   string
}

// Href builds the object id "/<type>/<id>".
func Href(resourceType, id string) string {
	return "/" + resourceType + "/" + id
}

// ExplodeHref splits "/type" or "/type/id". Anything else yields a zero Ref.
func ExplodeHref(href string) Ref {
	m := hrefPattern.FindStringSubmatch(href)
	if m == nil {
		return Ref{}
	}
	return Ref{Type: m[1], ID: m[2]}
}

// ExplodeAttr splits an attribute source "kind:name". Anything else yields
// two empty strings.
func ExplodeAttr(source string) (kind, name string) {
	m := attrPattern.FindStringSubmatch(source)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
