package schema

import (
	"strconv"

	"github.com/vitalvas/kasper-swagger/coreapi"
)

// builder collects links into sections in first-seen order. Link keys are
// unique across the whole document because the Swagger encoding drops the
// section from the operationId. Top-level link keys also never repeat a
// section name, since both share the document's content keys.
type builder struct {
	order    []string
	sections map[string][]coreapi.Item
	used     map[string]struct{}
	count    int
}

func newBuilder() *builder {
	return &builder{
		sections: make(map[string][]coreapi.Item),
		used:     make(map[string]struct{}),
	}
}

func (b *builder) add(section, key string, link *coreapi.Link) {
	if _, ok := b.sections[section]; !ok {
		b.order = append(b.order, section)
	}

	key = b.unique(section, key)
	b.used[key] = struct{}{}
	b.sections[section] = append(b.sections[section], coreapi.LinkItem(key, link))
	b.count++
}

// unique returns key, or on collision "section_key", or "key_N".
func (b *builder) unique(section, key string) string {
	if !b.taken(section, key) {
		return key
	}
	if section != "" {
		prefixed := section + "_" + key
		if !b.taken(section, prefixed) {
			return prefixed
		}
	}
	for n := 2; ; n++ {
		candidate := key + "_" + strconv.Itoa(n)
		if !b.taken(section, candidate) {
			return candidate
		}
	}
}

func (b *builder) taken(section, key string) bool {
	if _, used := b.used[key]; used {
		return true
	}
	return section == "" && b.isSection(key)
}

func (b *builder) isSection(name string) bool {
	if name == "" {
		return false
	}
	_, ok := b.sections[name]
	return ok
}

func (b *builder) len() int {
	return b.count
}

// items returns top-level links in place and named sections. Top-level
// links added before a section of the same name are renamed here.
func (b *builder) items() []coreapi.Item {
	top := b.sections[""]
	for i, item := range top {
		if b.isSection(item.Key) {
			key := b.unique("", item.Key)
			b.used[key] = struct{}{}
			top[i] = coreapi.LinkItem(key, item.Link)
		}
	}

	var items []coreapi.Item
	for _, name := range b.order {
		if name == "" {
			items = append(items, b.sections[name]...)
			continue
		}
		items = append(items, coreapi.Section(name, b.sections[name]...))
	}
	return items
}
