package upload

import "sync/atomic"

// DropZone routes dropped files through the selector so dropped and picked
// files share one validation path.
type DropZone struct {
	selector *Selector
	hovering atomic.Bool

	// OnHover is called whenever the hover state flips.
	OnHover func(hovering bool)
}

func NewDropZone(selector *Selector) *DropZone {
	return &DropZone{selector: selector}
}

func (d *DropZone) DragEnter() {
	d.setHover(true)
}

func (d *DropZone) DragOver() {
	d.setHover(true)
}

func (d *DropZone) DragLeave() {
	d.setHover(false)
}

func (d *DropZone) Drop(files []File) bool {
	d.setHover(false)
	return d.selector.HandleFileSelect(files)
}

func (d *DropZone) Hovering() bool {
	return d.hovering.Load()
}

func (d *DropZone) setHover(v bool) {
	if d.hovering.Swap(v) != v && d.OnHover != nil {
		d.OnHover(v)
	}
}
