package studio

import (
	"context"
	"sync"
)

const (
	ActionDelete   = "delete"
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
	ActionDownload = "download"
)

// ListConfig describes where a collection renders. Container may be empty for
// collections that only feed selects (the expression picker). Selects are
// rebuilt from the collection on every render.
type ListConfig struct {
	Container string
	Kind      Kind
	Actions   []string
	Selects   []string
}

type Loader func(ctx context.Context) ([]Item, error)

// ResourceList owns a collection and keeps its container and mirrored selects
// in one-to-one correspondence with it, in collection order.
type ResourceList struct {
	doc  *Document
	cfg  ListConfig
	load Loader

	mu    sync.Mutex
	items []Item
}

func NewResourceList(doc *Document, cfg ListConfig, load Loader) *ResourceList {
	return &ResourceList{doc: doc, cfg: cfg, load: load}
}

func (l *ResourceList) Config() ListConfig {
	return l.cfg
}

// Reload fetches the collection and renders it. On error the rendered list is
// left as it was.
func (l *ResourceList) Reload(ctx context.Context) error {
	if l.load == nil {
		return nil
	}
	items, err := l.load(ctx)
	if err != nil {
		return err
	}
	l.Render(items)
	return nil
}

func (l *ResourceList) node(item Item) Node {
	return Node{Item: item, Actions: append([]string(nil), l.cfg.Actions...)}
}

// Render replaces the collection. Nodes and options are built first and then
// attached in one step each.
func (l *ResourceList) Render(items []Item) {
	collection := append([]Item(nil), items...)
	nodes := make([]Node, 0, len(collection))
	options := make([]Option, 0, len(collection))
	for _, item := range collection {
		nodes = append(nodes, l.node(item))
		options = append(options, Option{Value: item.ID, Label: item.Label})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = collection
	if l.cfg.Container != "" {
		l.doc.ReplaceNodes(l.cfg.Container, nodes)
	}
	for _, sel := range l.cfg.Selects {
		l.doc.SetOptions(sel, options)
	}
}

func (l *ResourceList) Append(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	if l.cfg.Container != "" {
		l.doc.AppendNode(l.cfg.Container, l.node(item))
	}
	for _, sel := range l.cfg.Selects {
		l.doc.AddOption(sel, Option{Value: item.ID, Label: item.Label})
	}
}

// Remove drops exactly one item and its node and options.
func (l *ResourceList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if item.ID != id {
			continue
		}
		l.items = append(l.items[:i:i], l.items[i+1:]...)
		if l.cfg.Container != "" {
			l.doc.RemoveNode(l.cfg.Container, id)
		}
		for _, sel := range l.cfg.Selects {
			l.doc.RemoveOption(sel, id)
		}
		return true
	}
	return false
}

func (l *ResourceList) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Item(nil), l.items...)
}

func (l *ResourceList) Lookup(id string) (Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (l *ResourceList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
