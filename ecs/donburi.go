package ecs

import (
	"cmp"
	"slices"

	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ActorComponent holds a grove actor on an entity.
var ActorComponent = donburi.NewComponentType[grove.Actor]()

// MapChangedEventType is the Donburi event type published on map changes.
var MapChangedEventType = events.NewEventType[grove.MapChange]()

var actorQuery = donburi.NewQuery(filter.Contains(ActorComponent))

// ActorSink receives the full actor list. *grove.World implements it.
type ActorSink interface {
	SetActors(actors ...*grove.Actor)
}

// NewActor creates an entity holding a copy of a.
func NewActor(world donburi.World, a grove.Actor) donburi.Entity {
	e := world.Create(ActorComponent)
	ActorComponent.SetValue(world.Entry(e), a)
	return e
}

// Actors appends every actor component in world to dst[:0], ordered by ID
// so equal-depth actors keep a stable draw order.
func Actors(world donburi.World, dst []*grove.Actor) []*grove.Actor {
	dst = dst[:0]
	actorQuery.Each(world, func(entry *donburi.Entry) {
		dst = append(dst, ActorComponent.Get(entry))
	})
	slices.SortFunc(dst, func(a, b *grove.Actor) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return dst
}

// ActorSync copies the actors of a Donburi world into a sink.
type ActorSync struct {
	world donburi.World
	sink  ActorSink
	buf   []*grove.Actor
}

// NewActorSync creates a sync from world to sink.
func NewActorSync(world donburi.World, sink ActorSink) *ActorSync {
	return &ActorSync{world: world, sink: sink}
}

// Sync pushes the current actors to the sink and returns how many there were.
// Component pointers can move when entities are added or removed, so call it
// every frame.
func (s *ActorSync) Sync() int {
	s.buf = Actors(s.world, s.buf)
	s.sink.SetActors(s.buf...)
	return len(s.buf)
}

// PublishMapChanges returns a hook for grove.World.OnMapChange that queues
// each change as a MapChangedEventType event in world.
func PublishMapChanges(world donburi.World) func(grove.MapChange) {
	return func(c grove.MapChange) {
		MapChangedEventType.Publish(world, c)
	}
}
