// Package metadata turns audio files into catalog tracks: tags provide the
// name, artist, album and genre, and the duration is read from the stream
// itself per format.
package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"

	"github.com/anaailiesei/EchoWave/pkg/models"
)

// Extractor handles metadata extraction from audio files
type Extractor struct {
	supportedFormats []string
	logger           *logrus.Logger
}

// NewExtractor creates a new metadata extractor
func NewExtractor(supportedFormats []string) *Extractor {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Extractor{
		supportedFormats: supportedFormats,
		logger:           logger,
	}
}

// ExtractFromFile builds a catalog track from an audio file. Files without
// readable tags fall back to the filename as the track name.
func (e *Extractor) ExtractFromFile(filePath string) (models.Track, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"filePath": filePath,
			"error":    err.Error(),
		}).Error("Failed to open audio file")
		return models.Track{}, err
	}
	defer file.Close()

	duration, err := e.calculateDuration(filePath)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"filePath": filePath,
			"error":    err.Error(),
		}).Warn("Failed to calculate duration, setting to 0")
		duration = 0
	}

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		filename := filepath.Base(filePath)
		name := strings.TrimSuffix(filename, filepath.Ext(filename))

		e.logger.WithFields(logrus.Fields{
			"filePath": filePath,
			"error":    err.Error(),
		}).Warn("Failed to extract metadata, using filename")

		return models.Track{
			Name:     name,
			Owner:    "Unknown Artist",
			Duration: duration,
			Kind:     models.KindSong,
		}, nil
	}

	name := metadata.Title()
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	artist := metadata.Artist()
	if artist == "" {
		artist = "Unknown Artist"
	}

	track := models.Track{
		Name:     name,
		Owner:    artist,
		Duration: duration,
		Kind:     models.KindSong,
		Genre:    metadata.Genre(),
		Album:    metadata.Album(),
	}

	e.logger.WithFields(logrus.Fields{
		"filePath":       filePath,
		"name":           track.Name,
		"artist":         track.Owner,
		"album":          track.Album,
		"duration":       duration,
		"processingTime": time.Since(startTime),
	}).Debug("Successfully extracted metadata")

	return track, nil
}

// calculateDuration calculates the duration of an audio file in seconds
func (e *Extractor) calculateDuration(filePath string) (int, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".mp3":
		return e.durationMP3(filePath)
	case ".flac":
		return e.durationFLAC(filePath)
	case ".wav":
		return e.durationWAV(filePath)
	case ".m4a":
		return e.durationM4A(filePath)
	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}
}

// MP3 duration using frame decoding; fallback to average bitrate estimation only if frames fail entirely.
func (e *Extractor) durationMP3(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	dec := mp3.NewDecoder(f)
	var total time.Duration
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if frames == 0 { // could not decode any frame
				return e.estimateFromFileSize(path, 192000) // assume 192 kbps = 192000 bps
			}
			break // partial decode; use what we have
		}
		total += fr.Duration()
		frames++
	}
	return int(total.Seconds()), nil
}

// FLAC duration via STREAMINFO metadata block
func (e *Extractor) durationFLAC(path string) (int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, err
	}
	si := stream.Info
	if si.NSamples > 0 && si.SampleRate > 0 {
		secs := float64(si.NSamples) / float64(si.SampleRate)
		return int(secs + 0.5), nil
	}
	return 0, fmt.Errorf("flac stream missing sample info")
}

// WAV duration using go-audio/wav to read header
func (e *Extractor) durationWAV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file")
	}
	if dec.SampleRate == 0 || dec.BitDepth == 0 || dec.NumChans == 0 {
		return 0, fmt.Errorf("invalid wav header")
	}
	// Approximate using file size; full sample count may require decoding all samples.
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	headerSize := int64(44)
	pcmBytes := st.Size() - headerSize
	if pcmBytes < 0 {
		pcmBytes = 0
	}
	bytesPerSampleFrame := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if bytesPerSampleFrame <= 0 {
		return 0, fmt.Errorf("invalid sample frame size")
	}
	sampleFrames := pcmBytes / bytesPerSampleFrame
	secs := float64(sampleFrames) / float64(dec.SampleRate)
	return int(secs + 0.5), nil
}

// M4A (AAC in MP4) minimal duration parsing: read 'mvhd' timescale & duration.
// Lightweight manual atom scan to avoid pulling large dep. Best-effort.
func (e *Extractor) durationM4A(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	for {
		head := make([]byte, 8)
		if _, err := io.ReadFull(f, head); err != nil {
			return 0, err
		}
		size := binary.BigEndian.Uint32(head[0:4])
		atom := string(head[4:8])
		if size < 8 {
			return 0, fmt.Errorf("invalid atom size")
		}
		if atom == "moov" {
			// scan inside moov for mvhd
			limit := int64(size) - 8
			for read := int64(0); read < limit; {
				subHead := make([]byte, 8)
				if _, err := io.ReadFull(f, subHead); err != nil {
					return 0, err
				}
				subSize := binary.BigEndian.Uint32(subHead[0:4])
				subAtom := string(subHead[4:8])
				if subAtom == "mvhd" {
					version := make([]byte, 1)
					if _, err := io.ReadFull(f, version); err != nil {
						return 0, err
					}
					var skip int64
					if version[0] == 1 { // 64-bit
						skip = 3 + 8 + 8 // flags + creation + mod times (64-bit)
					} else {
						skip = 3 + 4 + 4 // flags + times (32-bit)
					}
					if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
						return 0, err
					}
					tsBuf := make([]byte, 4)
					if _, err := io.ReadFull(f, tsBuf); err != nil {
						return 0, err
					}
					timescale := binary.BigEndian.Uint32(tsBuf)
					durBuf := make([]byte, 4)
					if _, err := io.ReadFull(f, durBuf); err != nil {
						return 0, err
					}
					durUnits := binary.BigEndian.Uint32(durBuf)
					if timescale == 0 {
						return 0, fmt.Errorf("invalid timescale")
					}
					secs := float64(durUnits) / float64(timescale)
					return int(secs + 0.5), nil
				}
				// skip remainder of sub atom
				if subSize < 8 {
					return 0, fmt.Errorf("invalid sub-atom size")
				}
				if _, err := f.Seek(int64(subSize)-8, io.SeekCurrent); err != nil {
					return 0, err
				}
				read += int64(subSize)
			}
			break
		}
		// skip rest of atom
		if _, err := f.Seek(int64(size)-8, io.SeekCurrent); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("mvhd atom not found")
}

// estimateFromFileSize provides last-resort estimation if parsing fails.
func (e *Extractor) estimateFromFileSize(path string, bitrate int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if bitrate <= 0 {
		return 0, fmt.Errorf("invalid bitrate")
	}
	dur := (st.Size() * 8) / int64(bitrate)
	return int(dur), nil
}

// IsAudioFile checks if a file is a supported audio format
func (e *Extractor) IsAudioFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, format := range e.supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
