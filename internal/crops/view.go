package crops

import (
	"bytes"
	"image"
	_ "image/jpeg"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/player"
)

// Image is a decoded crop held by a View. Release frees the underlying
// resource; a View calls it exactly once per image.
type Image interface {
	Release()
}

// Decoder turns encoded crop bytes into an Image.
type Decoder interface {
	Decode(data []byte) (Image, error)
}

// FrameSource is the part of the player controller a View listens to.
type FrameSource interface {
	CurrentFrameIndex() int
	AddFrameChangeListener(h player.FrameChangeHandler) player.ListenerID
	RemoveFrameChangeListener(id player.ListenerID)
}

// View shows the crop of one category for the current frame. It swaps in the
// new frame's image on every frame change and releases the one it replaced.
type View struct {
	Category Category

	store   *Store
	decoder Decoder
	src     FrameSource
	id      player.ListenerID

	frame   int
	loaded  bool
	current Image
	closed  bool
}

// NewView subscribes a view of cat to src. The current frame is shown as soon
// as the category is loaded.
func NewView(src FrameSource, store *Store, cat Category, decoder Decoder) *View {
	v := &View{
		Category: cat,
		store:    store,
		decoder:  decoder,
		src:      src,
		frame:    src.CurrentFrameIndex(),
	}
	v.id = src.AddFrameChangeListener(v.onFrame)
	return v
}

// Loading reports whether the category is still being read.
func (v *View) Loading() bool { return !v.loaded }

// Image returns the image for the current frame, or nil when the frame has
// no crop.
func (v *View) Image() Image { return v.current }

// Update picks up a category that finished loading since the last call.
func (v *View) Update() {
	if v.loaded || v.closed {
		return
	}
	if v.store.Frames(v.Category) != nil {
		v.loaded = true
		v.show(v.frame)
	}
}

// Close unsubscribes the view and releases its image.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.RemoveFrameChangeListener(v.id)
	v.swap(nil)
}

func (v *View) onFrame(ev player.FrameChangeEvent) {
	v.frame = ev.FrameIndex
	if v.loaded {
		v.show(ev.FrameIndex)
	}
}

func (v *View) show(i int) {
	if v.closed {
		return
	}
	frames := v.store.Frames(v.Category)
	if i < 0 || i >= len(frames) || len(frames[i]) == 0 {
		v.swap(nil)
		return
	}
	img, err := v.decoder.Decode(frames[i])
	if err != nil {
		v.swap(nil)
		return
	}
	v.swap(img)
}

func (v *View) swap(img Image) {
	old := v.current
	v.current = img
	if old != nil {
		old.Release()
	}
}

// EbitenDecoder decodes JPEG crops into ebiten images.
type EbitenDecoder struct{}

// Decode implements Decoder.
func (EbitenDecoder) Decode(data []byte) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &EbitenImage{Image: ebiten.NewImageFromImage(src)}, nil
}

// EbitenImage wraps an ebiten image so it can be released by a View.
type EbitenImage struct {
	*ebiten.Image
}

// Release implements Image.
func (e *EbitenImage) Release() { e.Image.Deallocate() }
