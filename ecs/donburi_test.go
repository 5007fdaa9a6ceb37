package ecs

import (
	"testing"

	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

type recordingSink struct {
	calls  int
	actors []*grove.Actor
}

func (s *recordingSink) SetActors(actors ...*grove.Actor) {
	s.calls++
	s.actors = append(s.actors[:0], actors...)
}

func TestNewActor(t *testing.T) {
	world := donburi.NewWorld()
	e := NewActor(world, grove.Actor{ID: "npc_1", Category: grove.CategoryNPC, X: 3, Y: 4})

	entry := world.Entry(e)
	a := ActorComponent.Get(entry)
	if a.ID != "npc_1" || a.X != 3 || a.Y != 4 {
		t.Errorf("actor = %+v", a)
	}
}

func TestActors_SortedByID(t *testing.T) {
	world := donburi.NewWorld()
	NewActor(world, grove.Actor{ID: "c"})
	NewActor(world, grove.Actor{ID: "a"})
	NewActor(world, grove.Actor{ID: "b"})

	got := Actors(world, nil)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestActorSync(t *testing.T) {
	world := donburi.NewWorld()
	sink := &recordingSink{}
	sync := NewActorSync(world, sink)

	if n := sync.Sync(); n != 0 {
		t.Errorf("empty sync = %d, want 0", n)
	}

	NewActor(world, grove.Actor{ID: "player", Category: grove.CategoryPlayer})
	NewActor(world, grove.Actor{ID: "npc", Category: grove.CategoryNPC})
	if n := sync.Sync(); n != 2 {
		t.Errorf("sync = %d, want 2", n)
	}
	if sink.calls != 2 || len(sink.actors) != 2 {
		t.Errorf("sink calls=%d actors=%d", sink.calls, len(sink.actors))
	}
}

func TestActorSync_MutationsVisible(t *testing.T) {
	world := donburi.NewWorld()
	e := NewActor(world, grove.Actor{ID: "npc"})
	sink := &recordingSink{}
	NewActorSync(world, sink).Sync()

	ActorComponent.Get(world.Entry(e)).X = 9
	if sink.actors[0].X != 9 {
		t.Errorf("X = %v, want 9 (sink should see component storage)", sink.actors[0].X)
	}
}

func TestPublishMapChanges(t *testing.T) {
	world := donburi.NewWorld()
	var received []grove.MapChange
	MapChangedEventType.Subscribe(world, func(w donburi.World, c grove.MapChange) {
		received = append(received, c)
	})

	hook := PublishMapChanges(world)
	hook(grove.MapChange{Biome: "cave", Width: 10, Height: 8})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received before processing: %d", len(received))
	}
	events.ProcessAllEvents(world)
	if len(received) != 1 || received[0].Biome != "cave" || received[0].Width != 10 {
		t.Errorf("received = %+v", received)
	}
}

func TestActorSync_ImplementedByWorld(t *testing.T) {
	var _ ActorSink = (*grove.World)(nil)
}
