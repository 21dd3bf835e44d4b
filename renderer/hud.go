package renderer

import (
	"fmt"
	"strings"

	"car-scene/scene"
)

// TitleSetter is anything that can show a one-line status, such as a window
// title bar.
type TitleSetter interface {
	SetTitle(title string)
}

// StatusOverlay keeps the latest label of every toggle and renders them as a
// single status line.
type StatusOverlay struct {
	base   string
	labels map[scene.Feature]string
	target TitleSetter
}

var overlayOrder = []scene.Feature{
	scene.FeatureDirectionalLight,
	scene.FeaturePointLight,
	scene.FeatureFloorTexture,
	scene.FeatureDoors,
}

// NewStatusOverlay writes to target on every change. target may be nil, in
// which case the overlay only accumulates text.
func NewStatusOverlay(base string, target TitleSetter) *StatusOverlay {
	return &StatusOverlay{
		base:   base,
		labels: make(map[scene.Feature]string),
		target: target,
	}
}

func (o *StatusOverlay) Notify(change StatusChange) {
	o.labels[change.Feature] = change.Label()
	if o.target != nil {
		o.target.SetTitle(o.Text())
	}
}

// Text is e.g. "Car Scene | directional ON | point OFF | texture OFF | doors CLOSED".
func (o *StatusOverlay) Text() string {
	parts := []string{o.base}
	for _, f := range overlayOrder {
		if label, ok := o.labels[f]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", f, label))
		}
	}
	return strings.Join(parts, " | ")
}

func (o *StatusOverlay) Clear() {
	clear(o.labels)
}
