package studio

import (
	"context"
	"sync"
)

// Node is one rendered child of a list container.
type Node struct {
	Item
	Actions []string
}

// HasAction reports whether the node renders a control for action.
func (n Node) HasAction(action string) bool {
	for _, a := range n.Actions {
		if a == action {
			return true
		}
	}
	return false
}

type Option struct {
	Value string
	Label string
}

// Panel is a toggleable section with an optional media source (preview video,
// edit form).
type Panel struct {
	Visible bool
	Source  string
}

type Download struct {
	URL      string
	Filename string
}

// Event is a click on an item control inside a delegated container.
type Event struct {
	Container string
	ItemID    string
	Action    string
}

type EventHandler func(ctx context.Context, ev Event)

type selectState struct {
	options []Option
	value   string
}

// Document is the page-scoped view state every controller reads and mutates.
// It stands in for the browser DOM: containers of rendered nodes, form inputs,
// selects, toggle groups, panels, alerts and the current location.
type Document struct {
	mu sync.Mutex

	containers map[string][]Node
	delegates  map[string]EventHandler
	selects    map[string]*selectState
	fields     map[string]string
	files      map[string]*Upload
	texts      map[string]string
	panels     map[string]Panel
	active     map[string]string
	disabled   map[string]bool

	alerts    []string
	downloads []Download
	location  string

	// OnAlert, when set, is called for every user-visible message.
	OnAlert func(message string)
	// Confirm answers blocking confirmation prompts. Nil confirms everything.
	Confirm func(message string) bool
}

func NewDocument() *Document {
	return &Document{
		containers: make(map[string][]Node),
		delegates:  make(map[string]EventHandler),
		selects:    make(map[string]*selectState),
		fields:     make(map[string]string),
		files:      make(map[string]*Upload),
		texts:      make(map[string]string),
		panels:     make(map[string]Panel),
		active:     make(map[string]string),
		disabled:   make(map[string]bool),
	}
}

// Nodes returns a copy of the container's rendered children.
func (d *Document) Nodes(container string) []Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Node(nil), d.containers[container]...)
}

// ReplaceNodes attaches a fully built set of children in one step.
func (d *Document) ReplaceNodes(container string, nodes []Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[container] = nodes
}

func (d *Document) AppendNode(container string, node Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[container] = append(d.containers[container], node)
}

// RemoveNode removes the first child rendering itemID.
func (d *Document) RemoveNode(container, itemID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := d.containers[container]
	for i, n := range nodes {
		if n.ID == itemID {
			d.containers[container] = append(nodes[:i:i], nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Delegate installs the single click handler for a container.
func (d *Document) Delegate(container string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delegates[container] = handler
}

// Click delivers a click on the action control of a rendered item. It returns
// false when the container has no handler or no rendered node offers that action.
func (d *Document) Click(ctx context.Context, container, itemID, action string) bool {
	d.mu.Lock()
	handler := d.delegates[container]
	found := false
	for _, n := range d.containers[container] {
		if n.ID == itemID && n.HasAction(action) {
			found = true
			break
		}
	}
	d.mu.Unlock()

	if handler == nil || !found {
		return false
	}
	handler(ctx, Event{Container: container, ItemID: itemID, Action: action})
	return true
}

func (d *Document) selectFor(id string) *selectState {
	s, ok := d.selects[id]
	if !ok {
		s = &selectState{}
		d.selects[id] = s
	}
	return s
}

// SetOptions replaces a select's options. The current value survives only if
// it is still offered.
func (d *Document) SetOptions(id string, options []Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.selectFor(id)
	s.options = append([]Option(nil), options...)
	for _, o := range s.options {
		if o.Value == s.value {
			return
		}
	}
	s.value = ""
}

func (d *Document) AddOption(id string, option Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.selectFor(id)
	s.options = append(s.options, option)
}

func (d *Document) RemoveOption(id, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.selectFor(id)
	for i, o := range s.options {
		if o.Value == value {
			s.options = append(s.options[:i:i], s.options[i+1:]...)
			if s.value == value {
				s.value = ""
			}
			return true
		}
	}
	return false
}

func (d *Document) Options(id string) []Option {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Option(nil), d.selectFor(id).options...)
}

// Choose selects value in a select. Empty resets to the placeholder; unknown
// values are ignored.
func (d *Document) Choose(id, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.selectFor(id)
	if value == "" {
		s.value = ""
		return true
	}
	for _, o := range s.options {
		if o.Value == value {
			s.value = value
			return true
		}
	}
	return false
}

func (d *Document) Value(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectFor(id).value
}

func (d *Document) SetField(id, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields[id] = value
}

func (d *Document) Field(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields[id]
}

// SetFile puts a chosen file into a file input; nil clears it.
func (d *Document) SetFile(id string, file *Upload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if file == nil {
		delete(d.files, id)
		return
	}
	d.files[id] = file
}

func (d *Document) File(id string) *Upload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.files[id]
}

func (d *Document) SetText(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[id] = text
}

func (d *Document) Text(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.texts[id]
}

func (d *Document) ShowPanel(id, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panels[id] = Panel{Visible: true, Source: source}
}

// HidePanel hides a panel. With clear set the media source is dropped too.
func (d *Document) HidePanel(id string, clear bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.panels[id]
	p.Visible = false
	if clear {
		p.Source = ""
	}
	d.panels[id] = p
}

func (d *Document) Panel(id string) Panel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.panels[id]
}

// Activate marks key as the single active member of group.
func (d *Document) Activate(group, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active[group] = key
}

// ActiveIn returns the active members of group: empty or exactly one.
func (d *Document) ActiveIn(group string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key, ok := d.active[group]; ok {
		return []string{key}
	}
	return nil
}

func (d *Document) SetDisabled(control string, disabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if disabled {
		d.disabled[control] = true
		return
	}
	delete(d.disabled, control)
}

func (d *Document) Disabled(control string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disabled[control]
}

func (d *Document) Alert(message string) {
	d.mu.Lock()
	d.alerts = append(d.alerts, message)
	hook := d.OnAlert
	d.mu.Unlock()
	if hook != nil {
		hook(message)
	}
}

func (d *Document) Alerts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.alerts...)
}

// LastAlert returns the most recent message or "".
func (d *Document) LastAlert() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.alerts) == 0 {
		return ""
	}
	return d.alerts[len(d.alerts)-1]
}

func (d *Document) confirm(message string) bool {
	d.mu.Lock()
	fn := d.Confirm
	d.mu.Unlock()
	if fn == nil {
		return true
	}
	return fn(message)
}

func (d *Document) Navigate(location string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = location
}

func (d *Document) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location
}

func (d *Document) Download(url, filename string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.downloads = append(d.downloads, Download{URL: url, Filename: filename})
}

func (d *Document) Downloads() []Download {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Download(nil), d.downloads...)
}
