package querycache

import "strings"

// Key identifies a logical resource, most general part first:
// K("purchases") covers K("purchases", "12").
type Key []string

func K(parts ...string) Key {
	return Key(parts)
}

// ParseKey reverses String.
func ParseKey(name string) Key {
	if name == "" {
		return Key{}
	}
	return Key(strings.Split(name, ":"))
}

func (k Key) String() string {
	return strings.Join(k, ":")
}

// Resource is the leading part, used as the metrics label.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether prefix matches the leading parts of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// coversName reports whether the flattened key name sits at or beneath the
// flattened prefix.
func coversName(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	return name == prefix || strings.HasPrefix(name, prefix+":")
}
