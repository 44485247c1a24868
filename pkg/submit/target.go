package submit

import (
	"errors"
	"fmt"
)

// RenderTarget says where a submit's result renders.
type RenderTarget string

const (
	// TargetInline replaces the form's output in its current position.
	TargetInline RenderTarget = "inline"
	// TargetOverlay renders into a transient overlay anchored to the trigger.
	TargetOverlay RenderTarget = "overlay"
	// TargetModal renders into a modal dialog.
	TargetModal RenderTarget = "modal"
	// TargetNavigation performs a full navigation to the result.
	TargetNavigation RenderTarget = "navigation"
	// TargetNewTab opens the result in a new tab.
	TargetNewTab RenderTarget = "newtab"
	// TargetCurrent resolves against the trigger's enclosing surface chain.
	TargetCurrent RenderTarget = "current"
)

// ErrNoTarget reports that the current-context mode found no enclosing
// surface to render into. This is a configuration error, not a user-facing
// one.
var ErrNoTarget = errors.New("submit: no render target resolvable for current context")

// SurfaceKind classifies one level of the trigger's enclosing UI contexts.
type SurfaceKind string

const (
	SurfaceOverlay   SurfaceKind = "overlay"
	SurfaceTableCell SurfaceKind = "table-cell"
	SurfaceDialog    SurfaceKind = "dialog"
	SurfaceTab       SurfaceKind = "tab"
	// SurfaceGeneric is any container that cannot host a result itself.
	SurfaceGeneric SurfaceKind = "generic"
)

// Surface is one node of the chain from the triggering control up to the
// page root.
type Surface struct {
	Kind   SurfaceKind
	Parent *Surface
}

// Resolve turns a configured target into a concrete one. Explicit targets
// pass through; TargetCurrent walks up from trigger to the nearest overlay,
// table cell, dialog or tab and targets that.
func Resolve(target RenderTarget, trigger *Surface) (RenderTarget, error) {
	switch target {
	case TargetInline, TargetOverlay, TargetModal, TargetNavigation, TargetNewTab:
		return target, nil
	case TargetCurrent:
		for s := trigger; s != nil; s = s.Parent {
			switch s.Kind {
			case SurfaceOverlay:
				return TargetOverlay, nil
			case SurfaceDialog:
				return TargetModal, nil
			case SurfaceTableCell, SurfaceTab:
				return TargetInline, nil
			}
		}
		return "", ErrNoTarget
	default:
		return "", fmt.Errorf("submit: unknown render target %q", target)
	}
}
