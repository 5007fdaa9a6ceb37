package grove

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLayer_DrawCullsOffscreen(t *testing.T) {
	img := ebiten.NewImage(8, 8)
	l := newLayer("test", mapTextures{"a": img})
	on := &Sprite{X: 10, Y: 10, W: 16, H: 16, TextureKey: "a", Alpha: 1, Color: ColorWhite, Visible: true}
	off := &Sprite{X: 500, Y: 10, W: 16, H: 16, TextureKey: "a", Alpha: 1, Color: ColorWhite, Visible: true}
	hidden := &Sprite{X: 20, Y: 20, W: 16, H: 16, TextureKey: "a", Alpha: 1, Color: ColorWhite}
	transparent := &Sprite{X: 20, Y: 20, W: 16, H: 16, TextureKey: "a", Alpha: 0, Color: ColorWhite, Visible: true}
	for _, s := range []*Sprite{on, off, hidden, transparent} {
		l.push(s)
	}

	screen := ebiten.NewImage(320, 180)
	l.Draw(screen)
	if l.drawn != 1 {
		t.Errorf("drawn = %d, want 1", l.drawn)
	}

	l.SetCameraState(CameraState{X: 400, Zoom: 1})
	l.Draw(screen)
	if l.drawn != 1 {
		t.Errorf("drawn after panning = %d, want 1 (the far sprite)", l.drawn)
	}

	l.ScreenSpace = true
	l.Draw(screen)
	if l.drawn != 2 {
		t.Errorf("screen-space drawn = %d, want 2", l.drawn)
	}
}

func TestLayer_ZoomWidensView(t *testing.T) {
	l := newLayer("test", nil)
	screen := ebiten.NewImage(320, 180)
	l.SetCameraState(CameraState{X: 10, Y: 20, Zoom: 0.5})
	v := l.viewRect(screen)
	if v != (Rect{X: 10, Y: 20, Width: 640, Height: 360}) {
		t.Errorf("viewRect = %+v", v)
	}
}

func TestLayer_BeginClearsSurface(t *testing.T) {
	l := newLayer("test", nil)
	l.push(&Sprite{})
	l.push(&Sprite{})
	l.begin()
	if len(l.Sprites()) != 0 {
		t.Errorf("surface has %d sprites after begin", len(l.Sprites()))
	}
	n := 0
	l.Each(func(Drawable) { n++ })
	if n != 0 {
		t.Errorf("Each visited %d", n)
	}
}
