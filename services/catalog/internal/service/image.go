package service

import "strings"

const PlaceholderImage = "img/placeholder.jpg"

// ResolveImage turns a stored image reference into a fetchable URL.
// Storage object paths are expanded against base, an empty reference becomes
// the placeholder and anything else is returned as stored.
func ResolveImage(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return PlaceholderImage
	case strings.HasPrefix(ref, "productos/"):
		return strings.TrimRight(base, "/") + "/storage/v1/object/public/" + ref
	default:
		return ref
	}
}
