// Package grove is the rendering and depth-sorting core of a seasonal,
// time-of-day-aware 2D tile world on [Ebitengine].
//
// A [World] owns a [Camera], a [WorldClock], and four layers drawn in order:
// a [ShadowCaster], an [EntityRenderer], a [DarknessOverlay], and a
// [GlowLayer]. Tile content comes from a [TileSource]; how each tile type is
// drawn comes from a [MetadataRegistry]; textures come from a
// [TextureCache].
//
// # Quick start
//
//	reg, _ := grove.LoadMetadataJSON(spritesJSON)
//	cache := grove.NewTextureCache(grove.FSFetcher(assets))
//	world := grove.NewWorld(reg, cache, grove.DefaultWorldConfig())
//	_ = world.Preload(ctx)
//
//	world.ChangeMap(tiles, "forest")
//	player := grove.NewActor("player", grove.CategoryPlayer, 10, 12)
//	world.SetActors(player)
//	world.FollowActor(player, 0.2)
//
//	grove.Run(world, grove.RunConfig{Title: "Valley"})
//
// For full control, call [World.Update] and [World.Draw] from your own
// [ebiten.Game].
//
// # Depth sorting
//
// Terrain decorations, furniture, the player, and NPCs share one sorted
// surface. Every sprite's sort key comes from its depth line, the world tile
// Y where it touches the ground:
//
//	key = DepthBase + floor(depthLineY * DepthSubLevels)
//
// A tree's depth line is the bottom of its collision box, so an actor whose
// feet are above the trunk draws behind the canopy and an actor below it
// draws in front. Ground decorations are pinned to [GroundDepthKey] and never
// cover anything that stands.
//
// # Time of day
//
// The [WorldClock] classifies the hour as day, dawn, dusk, or night from a
// per-season [DaylightTable]. The shadow caster derives a sun angle from the
// same table; sun-blocking weather hides every shadow. The darkness overlay
// multiplies a biome's base darkness by the time of day and caps it at
// [MaxDarkness].
//
// # Pools
//
// Drawables are created the first time their anchor tile is visible, hidden
// when it scrolls away, and destroyed only by [World.ChangeMap].
//
// [Ebitengine]: https://ebitengine.org
package grove
