package worker

import (
	"maps"
	"strings"
	"sync"
)

//go:generate go tool go-enum --marshal --nocase --names

// Kind of tag processing. Every registered tag name maps to one of these
// and dispatch switches over them exhaustively.
// ENUM(unknown, emStrongEtc, anchor, break, listContainer, rule, span, heading, listItem, preformatted, div, table, row, cell, image)
type TagKind int

// defaultTags are tags supported out of the box.
var defaultTags = map[string]TagKind{
	"a":      TagKindAnchor,
	"b":      TagKindEmStrongEtc,
	"body":   TagKindDiv,
	"br":     TagKindBreak,
	"div":    TagKindDiv,
	"em":     TagKindEmStrongEtc,
	"font":   TagKindSpan,
	"h1":     TagKindHeading,
	"h2":     TagKindHeading,
	"h3":     TagKindHeading,
	"h4":     TagKindHeading,
	"h5":     TagKindHeading,
	"h6":     TagKindHeading,
	"hr":     TagKindRule,
	"i":      TagKindEmStrongEtc,
	"img":    TagKindImage,
	"li":     TagKindListItem,
	"ol":     TagKindListContainer,
	"p":      TagKindDiv,
	"pre":    TagKindPreformatted,
	"s":      TagKindEmStrongEtc,
	"span":   TagKindSpan,
	"strike": TagKindEmStrongEtc,
	"strong": TagKindEmStrongEtc,
	"sub":    TagKindEmStrongEtc,
	"sup":    TagKindEmStrongEtc,
	"table":  TagKindTable,
	"td":     TagKindCell,
	"th":     TagKindCell,
	"tr":     TagKindRow,
	"u":      TagKindEmStrongEtc,
	"ul":     TagKindListContainer,
}

// Registry maps lower-case tag names to processing kinds. It is safe for
// concurrent use so a single registry may be shared by workers running in
// parallel.
type Registry struct {
	mu   sync.RWMutex
	tags map[string]TagKind
}

// NewRegistry returns registry with default tag set.
func NewRegistry() *Registry {
	return &Registry{tags: maps.Clone(defaultTags)}
}

// NewEmptyRegistry returns registry without any tags.
func NewEmptyRegistry() *Registry {
	return &Registry{tags: make(map[string]TagKind)}
}

// Register maps tag name to kind. Registering TagKindUnknown removes tag.
func (r *Registry) Register(tag string, kind TagKind) {
	tag = strings.ToLower(tag)
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == TagKindUnknown || !kind.IsValid() {
		delete(r.tags, tag)
		return
	}
	r.tags[tag] = kind
}

// Unregister removes tag, unknown tags are ignored by workers.
func (r *Registry) Unregister(tag string) {
	r.Register(tag, TagKindUnknown)
}

// Lookup returns kind of the tag, TagKindUnknown when not registered.
func (r *Registry) Lookup(tag string) TagKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tags[strings.ToLower(tag)]
}

// Tags returns copy of registered mapping.
func (r *Registry) Tags() map[string]TagKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.tags)
}
