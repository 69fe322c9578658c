package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// probeOutput is the subset of ffprobe's JSON output we read.
type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
}

// ProbeVideoFile runs ffprobe on path and derives the VideoFile metadata.
func ProbeVideoFile(path string) (VideoFile, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return VideoFile{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(out string) (VideoFile, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return VideoFile{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		v := VideoFile{
			MediaType:   "video/mp4",
			FrameWidth:  s.Width,
			FrameHeight: s.Height,
		}
		v.Framerate = parseRate(s.RFrameRate)
		if v.Framerate <= 0 {
			v.Framerate = parseRate(s.AvgFrameRate)
		}
		v.DurationSeconds, _ = strconv.ParseFloat(s.Duration, 64)
		if v.DurationSeconds <= 0 {
			v.DurationSeconds, _ = strconv.ParseFloat(p.Format.Duration, 64)
		}
		v.FrameCount, _ = strconv.Atoi(s.NbFrames)
		if v.FrameCount <= 0 {
			v.FrameCount = int(math.Round(v.Framerate * v.DurationSeconds))
		}
		v.FileSizeBytes, _ = strconv.ParseInt(p.Format.Size, 10, 64)
		return v, nil
	}
	return VideoFile{}, fmt.Errorf("ffprobe: no video stream")
}

// parseRate parses ffprobe rationals like "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
