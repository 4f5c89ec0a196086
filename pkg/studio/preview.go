package studio

import "sync"

type StageState int

const (
	StageEmpty StageState = iota
	StageStaged
)

// PreviewStage holds at most one generated animation that has not been saved.
// Staging while something is pending replaces it. A page may show previews in
// more than one panel; the stage still holds only one of them.
type PreviewStage struct {
	doc   *Document
	panel string

	mu      sync.Mutex
	pending *Item
	shownIn string
}

func NewPreviewStage(doc *Document, panel string) *PreviewStage {
	return &PreviewStage{doc: doc, panel: panel}
}

// Stage binds item's media to the default panel and reveals it.
func (p *PreviewStage) Stage(item Item) (Item, bool) {
	return p.StageIn(p.panel, item)
}

// StageIn binds item's media to panel and reveals it. It returns the preview
// it replaced, if any; a replaced preview shown in another panel is hidden.
func (p *PreviewStage) StageIn(panel string, item Item) (Item, bool) {
	if panel == "" {
		panel = p.panel
	}

	p.mu.Lock()
	var replaced Item
	hadPending := p.pending != nil
	previousPanel := p.shownIn
	if hadPending {
		replaced = *p.pending
	}
	staged := item
	p.pending = &staged
	p.shownIn = panel
	p.mu.Unlock()

	if hadPending && previousPanel != panel {
		p.doc.HidePanel(previousPanel, true)
	}
	p.doc.ShowPanel(panel, item.Media)
	return replaced, hadPending
}

func (p *PreviewStage) Pending() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return Item{}, false
	}
	return *p.pending, true
}

// Clear hides the panel, drops its source and returns to empty.
func (p *PreviewStage) Clear() (Item, bool) {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return Item{}, false
	}
	cleared := *p.pending
	panel := p.shownIn
	p.pending = nil
	p.shownIn = ""
	p.mu.Unlock()

	p.doc.HidePanel(panel, true)
	return cleared, true
}

// clearIf clears only when item is still the pending preview, so a commit that
// raced with a newer Stage does not drop the newer one.
func (p *PreviewStage) clearIf(item Item) bool {
	p.mu.Lock()
	if p.pending == nil || p.pending.ID != item.ID || p.pending.Media != item.Media {
		p.mu.Unlock()
		return false
	}
	panel := p.shownIn
	p.pending = nil
	p.shownIn = ""
	p.mu.Unlock()

	p.doc.HidePanel(panel, true)
	return true
}

func (p *PreviewStage) State() StageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return StageEmpty
	}
	return StageStaged
}

// Panel returns the panel currently showing the pending preview, or the
// default panel when nothing is staged.
func (p *PreviewStage) Panel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return p.panel
	}
	return p.shownIn
}
