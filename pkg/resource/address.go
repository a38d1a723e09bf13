package resource

// AddressKind says where an attribute value is stored.
type AddressKind int

// Address kinds.
const (
	AddressUnknown    AddressKind = iota
	AddressMeta                   // meta:<field>
	AddressFile                   // file:<path>
	AddressListAdd                // add:<field>
	AddressListRemove             // rem:<field>
)

func (k AddressKind) String() string {
	switch k {
	case AddressMeta:
		return "meta"
	case AddressFile:
		return "file"
	case AddressListAdd:
		return "add"
	case AddressListRemove:
		return "rem"
	default:
		return "unknown"
	}
}

// Address is a parsed attribute source.
type Address struct {
	Kind AddressKind
	Name string
	// Raw is the source string the address was parsed from.
	Raw string
}

// ParseAddress parses an attribute source such as "meta:title".
// Unrecognised kinds and malformed sources yield AddressUnknown.
func ParseAddress(source string) Address {
	kind, name := ExplodeAttr(source)
	a := Address{Name: name, Raw: source}
	switch kind {
	case "meta":
		a.Kind = AddressMeta
	case "file":
		a.Kind = AddressFile
	case "add":
		a.Kind = AddressListAdd
	case "rem":
		a.Kind = AddressListRemove
	}
	return a
}

// MetaAddress returns the address of the stored field name.
func MetaAddress(name string) Address {
	return Address{Kind: AddressMeta, Name: name, Raw: "meta:" + name}
}
