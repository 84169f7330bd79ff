package vdom

import (
	"time"

	"github.com/cv-dev/cv/pkg/dom"
)

// FocusOutcome describes what happened to keyboard focus when a rendered
// node replaced its predecessor.
type FocusOutcome uint8

const (
	// FocusNone means nothing inside the replaced node had focus.
	FocusNone FocusOutcome = iota
	// FocusSelf means the replaced node itself had focus.
	FocusSelf
	// FocusPath means focus was restored by sibling-index path.
	FocusPath
	// FocusKey means focus was restored by matching the key attribute.
	FocusKey
	// FocusLost means focus was inside the old node but no equivalent
	// element exists in the new one.
	FocusLost
)

// String returns the string representation of the FocusOutcome.
func (o FocusOutcome) String() string {
	switch o {
	case FocusNone:
		return "none"
	case FocusSelf:
		return "self"
	case FocusPath:
		return "path"
	case FocusKey:
		return "key"
	case FocusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Subscription kinds reported to Observer.EffectStopped.
const (
	SubscriptionNode      = "node"
	SubscriptionAttribute = "attribute"
)

// Observer receives render lifecycle notifications.
type Observer interface {
	// NodeRendered is called for every document node a Node renderer produces.
	NodeRendered(kind dom.NodeType)

	// NodeReplaced is called after a top-level render swapped a node in place.
	NodeReplaced(outcome FocusOutcome)

	// EffectStopped is called when a reactive subscription cancels itself
	// because its node left the document.
	EffectStopped(kind string)

	// ModuleLoaded is called after every module resolution attempt.
	ModuleLoaded(specifier string, elapsed time.Duration, err error)
}

// NopObserver ignores every notification. Embed it to implement part of
// Observer.
type NopObserver struct{}

func (NopObserver) NodeRendered(dom.NodeType)                 {}
func (NopObserver) NodeReplaced(FocusOutcome)                 {}
func (NopObserver) EffectStopped(string)                      {}
func (NopObserver) ModuleLoaded(string, time.Duration, error) {}

// Observers fans notifications out to several observers in order.
func Observers(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) NodeRendered(kind dom.NodeType) {
	for _, o := range m {
		o.NodeRendered(kind)
	}
}

func (m multiObserver) NodeReplaced(outcome FocusOutcome) {
	for _, o := range m {
		o.NodeReplaced(outcome)
	}
}

func (m multiObserver) EffectStopped(kind string) {
	for _, o := range m {
		o.EffectStopped(kind)
	}
}

func (m multiObserver) ModuleLoaded(specifier string, elapsed time.Duration, err error) {
	for _, o := range m {
		o.ModuleLoaded(specifier, elapsed, err)
	}
}
