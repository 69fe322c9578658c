package dataset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// File names inside a dataset folder.
const (
	VideoMetaFile       = "video.json"
	NormalizedVideoFile = "normalized_file.mp4"
	GeometryFile        = "geometry.json"
	ClipsCollectionFile = "clips_collection.json"
)

// Folder gives access to the files describing a single processed video.
type Folder struct {
	root string
}

// OpenFolder checks that root is a directory and returns a Folder for it.
func OpenFolder(root string) (*Folder, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("open dataset: %s is not a directory", root)
	}
	return &Folder{root: root}, nil
}

// Path converts a folder-local path to a usable path.
func (f *Folder) Path(name string) string {
	return filepath.Join(f.root, name)
}

// Root returns the folder path.
func (f *Folder) Root() string { return f.root }

// VideoPath returns the path of the normalized video.
func (f *Folder) VideoPath() string { return f.Path(NormalizedVideoFile) }

// Dataset is everything the viewer reads for one video. It is read-only once loaded.
type Dataset struct {
	Video      VideoFile
	Geometries []*FrameGeometry // nil when not computed yet
	Clips      *ClipsCollection // nil when not computed yet
}

// Geometry returns the geometry of frame i, synthesizing a default when absent.
func (d *Dataset) Geometry(i int) *FrameGeometry {
	return GeometryAt(d.Geometries, i, d.Video)
}

// LoadVideoFile reads video.json, falling back to probing the normalized video.
func (f *Folder) LoadVideoFile() (VideoFile, error) {
	var v VideoFile
	ok, err := readJSON(f.Path(VideoMetaFile), &v)
	if err != nil {
		return VideoFile{}, err
	}
	if !ok {
		v, err = ProbeVideoFile(f.VideoPath())
		if err != nil {
			return VideoFile{}, err
		}
	}
	if err := v.Validate(); err != nil {
		return VideoFile{}, fmt.Errorf("video metadata: %w", err)
	}
	return v, nil
}

// LoadGeometries reads geometry.json. Returns nil without error when missing.
func (f *Folder) LoadGeometries() ([]*FrameGeometry, error) {
	var geoms []*FrameGeometry
	ok, err := readJSON(f.Path(GeometryFile), &geoms)
	if err != nil || !ok {
		return nil, err
	}
	return geoms, nil
}

// LoadClips reads clips_collection.json. Returns nil without error when missing.
// An absent lookup table is recomputed from the clips.
func (f *Folder) LoadClips() (*ClipsCollection, error) {
	cc := &ClipsCollection{}
	ok, err := readJSON(f.Path(ClipsCollectionFile), cc)
	if err != nil || !ok {
		return nil, err
	}
	if len(cc.ClipIndexLookup) == 0 && len(cc.Clips) > 0 {
		if err := cc.RecomputeLookup(); err != nil {
			return nil, err
		}
	}
	return cc, nil
}

// Load reads the whole dataset. The video metadata may be supplied by the
// caller (e.g. from a media server); pass nil to read it from the folder.
func (f *Folder) Load(video *VideoFile) (*Dataset, error) {
	d := &Dataset{}
	if video != nil {
		if err := video.Validate(); err != nil {
			return nil, fmt.Errorf("video metadata: %w", err)
		}
		d.Video = *video
	} else {
		v, err := f.LoadVideoFile()
		if err != nil {
			return nil, err
		}
		d.Video = v
	}

	geoms, err := f.LoadGeometries()
	if err != nil {
		return nil, err
	}
	d.Geometries = geoms
	if geoms == nil {
		log.Printf("dataset: no %s in %s, using default geometry", GeometryFile, f.root)
	} else if len(geoms) != d.Video.FrameCount {
		log.Printf("dataset: %d geometries for %d frames", len(geoms), d.Video.FrameCount)
	}

	clips, err := f.LoadClips()
	if err != nil {
		return nil, err
	}
	d.Clips = clips
	return d, nil
}

// readJSON decodes path into v. It reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
