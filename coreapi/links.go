package coreapi

// KeyedLink is a link together with the keys leading to it.
type KeyedLink struct {
	Keys []string
	Link *Link
}

// Links returns all links of the document in depth-first order.
func (d *Document) Links() []KeyedLink {
	if d == nil {
		return nil
	}
	return collectLinks(d.Content, nil)
}

func collectLinks(items []Item, prefix []string) []KeyedLink {
	var out []KeyedLink
	for _, item := range items {
		keys := make([]string, len(prefix)+1)
		copy(keys, prefix)
		keys[len(prefix)] = item.Key

		if item.IsLink() {
			out = append(out, KeyedLink{Keys: keys, Link: item.Link})
			continue
		}
		out = append(out, collectLinks(item.Items, keys)...)
	}
	return out
}

// Len returns the number of links in the document.
func (d *Document) Len() int {
	return len(d.Links())
}
