// Package ecs connects grove to a [Donburi] world.
//
// Actors live as [ActorComponent] entries; an [ActorSync] copies them into a
// grove.World (or any [ActorSink]) once per frame. Map changes can be
// published as Donburi events with [PublishMapChanges]:
//
//	sync := ecs.NewActorSync(ecsWorld, world)
//	world.OnMapChange = ecs.PublishMapChanges(ecsWorld)
//
//	// each frame, before world.Update:
//	sync.Sync()
//	ecs.MapChangedEventType.ProcessEvents(ecsWorld)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
