// Package crops loads the per-frame crop images of a dataset and shows the
// crop of the current frame.
package crops

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/depeter/signviewer/internal/dataset"
)

// Category is one of the crop folders produced for a video.
type Category int

const (
	Face Category = iota
	LeftHand
	RightHand
	Images
)

// Categories lists every crop category in display order.
var Categories = []Category{Face, LeftHand, RightHand, Images}

// Folder returns the dataset folder holding the category's frames.
func (c Category) Folder() string {
	switch c {
	case Face:
		return "cropped_face"
	case LeftHand:
		return "cropped_left_hand"
	case RightHand:
		return "cropped_right_hand"
	default:
		return "cropped_images"
	}
}

// Label returns the caption shown above the crop.
func (c Category) Label() string {
	switch c {
	case Face:
		return "Face"
	case LeftHand:
		return "Left hand"
	case RightHand:
		return "Right hand"
	default:
		return "Crop"
	}
}

// FrameFile returns the file name of frame i inside a crop folder.
func FrameFile(i int) string {
	return fmt.Sprintf("frame_%06d.jpg", i)
}

// Store holds the encoded crop frames of one video, loaded in the background.
type Store struct {
	folder     *dataset.Folder
	frameCount int

	frames  sync.Map // Category -> [][]byte
	loading sync.Map // Category -> *loadEntry (in-flight dedup with waiters)
}

// maxConcurrentReads bounds the file reads of one category load.
const maxConcurrentReads = 6

// loadEntry tracks an in-flight category load and its waiters. Once done is
// set, late waiters are called with frames instead of being queued.
type loadEntry struct {
	mu        sync.Mutex
	callbacks []func([][]byte)
	done      bool
	frames    [][]byte
}

// NewStore creates a store for the crops of a dataset folder.
func NewStore(folder *dataset.Folder, frameCount int) *Store {
	return &Store{
		folder:     folder,
		frameCount: frameCount,
	}
}

// Frames returns the encoded frames of a category, or nil while they are not
// loaded yet. Entries for frames without a crop are nil.
func (s *Store) Frames(cat Category) [][]byte {
	if v, ok := s.frames.Load(cat); ok {
		return v.([][]byte)
	}
	return nil
}

// LoadAsync starts loading a category in the background. The callback, if
// any, is called from a goroutine once the frames are available.
func (s *Store) LoadAsync(cat Category, callback func([][]byte)) {
	if frames := s.Frames(cat); frames != nil {
		if callback != nil {
			callback(frames)
		}
		return
	}

	entry := &loadEntry{}
	if callback != nil {
		entry.callbacks = append(entry.callbacks, callback)
	}
	if existing, loaded := s.loading.LoadOrStore(cat, entry); loaded {
		if callback != nil {
			e := existing.(*loadEntry)
			e.mu.Lock()
			if e.done {
				frames := e.frames
				e.mu.Unlock()
				callback(frames)
				return
			}
			e.callbacks = append(e.callbacks, callback)
			e.mu.Unlock()
		}
		return
	}

	go func() {
		defer s.loading.Delete(cat)

		frames := s.Frames(cat)
		if frames == nil {
			var err error
			if frames, err = s.Load(cat); err != nil {
				log.Printf("crops: load %s: %v", cat.Folder(), err)
				frames = [][]byte{}
			}
			s.frames.Store(cat, frames)
		}

		entry.mu.Lock()
		entry.done = true
		entry.frames = frames
		cbs := entry.callbacks
		entry.callbacks = nil
		entry.mu.Unlock()

		for _, cb := range cbs {
			cb(frames)
		}
	}()
}

// Load reads every frame of a category. A missing folder yields an empty,
// non-nil slice; missing individual frames are left nil.
func (s *Store) Load(cat Category) ([][]byte, error) {
	dir := s.folder.Path(cat.Folder())
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return [][]byte{}, nil
	}

	frames := make([][]byte, s.frameCount)
	var g errgroup.Group
	g.SetLimit(maxConcurrentReads)
	for i := range frames {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(dir, FrameFile(i)))
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			frames[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
