package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// UIEvent is the ECS-side view of a canopy event. It identifies elements by
// ID and name rather than pointer so systems do not keep disposed elements
// alive.
type UIEvent struct {
	Type        canopy.EventType
	ElementID   uint32
	ElementName string

	X, Y       float64 // screen position, pointer events only
	DX, DY     float64
	Button     canopy.MouseButton
	ClickCount int
	Key        int
	Modifiers  canopy.KeyModifiers
}

// UIEventType is the Donburi event type for canopy UI events.
var UIEventType = events.NewEventType[UIEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world. Events are
// published to UIEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiStore(world donburi.World) canopy.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(ev canopy.Event) {
	UIEventType.Publish(s.world, toUIEvent(ev))
}

func toUIEvent(ev canopy.Event) UIEvent {
	out := UIEvent{
		Type:       ev.Type,
		X:          ev.Position.X,
		Y:          ev.Position.Y,
		DX:         ev.Delta.X,
		DY:         ev.Delta.Y,
		Button:     ev.Button,
		ClickCount: ev.ClickCount,
		Key:        ev.Key,
		Modifiers:  ev.Modifiers,
	}
	if ev.Target != nil {
		out.ElementID = ev.Target.ID
		out.ElementName = ev.Target.Name
	}
	return out
}
