package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	// ErrStoreClosed is returned when writing to a store after Close
	ErrStoreClosed = errors.New("replay store closed")
	// ErrInvalidStoreType is returned when an unknown store type is specified
	ErrInvalidStoreType = errors.New("invalid replay store type")
)

// StoreType selects the replay backend
type StoreType string

const (
	// StoreTypeNone discards frames
	StoreTypeNone StoreType = "none"
	// StoreTypeFile writes newline-delimited protojson files
	StoreTypeFile StoreType = "file"
)

// StoreConfig configures a replay store
type StoreConfig struct {
	Type        StoreType
	BaseDir     string
	MaxFileSize int64 // rotate once a file reaches this many bytes, 0 = never
}

// DefaultStoreConfig returns a configuration that writes nothing
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Type:        StoreTypeNone,
		BaseDir:     "replays",
		MaxFileSize: 16 * 1024 * 1024,
	}
}

// Store persists encoded frames
type Store interface {
	// Write persists a batch of frames in order
	Write(ctx context.Context, frames []*structpb.Struct) error

	// Read returns frames of gameID (all games if empty) in write order, at most limit (0 = all)
	Read(ctx context.Context, gameID string, limit int) ([]*structpb.Struct, error)

	// Close cleanly shuts down the store
	Close() error

	// Stats returns store statistics
	Stats() StoreStats
}

// StoreStats contains statistics about store operations
type StoreStats struct {
	FramesWritten int64
	FramesRead    int64
	BytesWritten  int64
	WriteErrors   int64
	ReadErrors    int64
	Files         int
	LastWriteTime time.Time
}

// FileStore appends frames to replay_<timestamp>_<n>.jsonl files under BaseDir
type FileStore struct {
	config StoreConfig
	logger zerolog.Logger

	mu    sync.Mutex
	stats StoreStats

	currentFile *os.File
	currentSize int64
	fileIndex   int
	closed      bool
}

// NewFileStore creates the base directory and opens the first file
func NewFileStore(config StoreConfig, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create replay directory: %w", err)
	}

	fs := &FileStore{
		config: config,
		logger: logger.With().Str("component", "replay_store").Logger(),
	}
	if err := fs.rotateFile(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Write appends frames to the current file, rotating when it grows past MaxFileSize
func (fs *FileStore) Write(ctx context.Context, frames []*structpb.Struct) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return ErrStoreClosed
	}

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fs.config.MaxFileSize > 0 && fs.currentSize >= fs.config.MaxFileSize {
			if err := fs.rotateFile(); err != nil {
				fs.stats.WriteErrors++
				return fmt.Errorf("failed to rotate file: %w", err)
			}
		}

		data, err := protojson.Marshal(frame)
		if err != nil {
			fs.stats.WriteErrors++
			return fmt.Errorf("failed to marshal frame: %w", err)
		}

		n, err := fs.currentFile.Write(append(data, '\n'))
		if err != nil {
			fs.stats.WriteErrors++
			return fmt.Errorf("failed to write frame: %w", err)
		}

		fs.currentSize += int64(n)
		fs.stats.FramesWritten++
		fs.stats.BytesWritten += int64(n)
	}

	if err := fs.currentFile.Sync(); err != nil {
		fs.logger.Warn().Err(err).Msg("Failed to sync file")
	}
	fs.stats.LastWriteTime = time.Now()

	fs.logger.Debug().
		Int("batch_size", len(frames)).
		Int64("file_size", fs.currentSize).
		Msg("Wrote replay frames")
	return nil
}

// Read scans every replay file in name order
func (fs *FileStore) Read(ctx context.Context, gameID string, limit int) ([]*structpb.Struct, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	files, err := ListFiles(fs.config.BaseDir)
	if err != nil {
		fs.stats.ReadErrors++
		return nil, err
	}

	var frames []*structpb.Struct
	for _, file := range files {
		if limit > 0 && len(frames) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remaining := 0
		if limit > 0 {
			remaining = limit - len(frames)
		}
		got, err := ReadFile(file, gameID, remaining)
		if err != nil {
			fs.stats.ReadErrors++
			fs.logger.Warn().
				Err(err).
				Str("file", file).
				Msg("Failed to read replay file")
			continue
		}
		frames = append(frames, got...)
	}

	fs.stats.FramesRead += int64(len(frames))
	return frames, nil
}

// ListFiles returns the replay files under dir in creation order
func ListFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "replay_*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list replay files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile decodes the frames of one replay file, keeping those of gameID
// (all if empty), at most limit (0 = all)
func ReadFile(filename, gameID string, limit int) ([]*structpb.Struct, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var frames []*structpb.Struct
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if limit > 0 && len(frames) >= limit {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		frame := &structpb.Struct{}
		if err := protojson.Unmarshal(line, frame); err != nil {
			return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
		}
		if gameID == "" || GameIDOf(frame) == gameID {
			frames = append(frames, frame)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return frames, nil
}

// rotateFile closes the current file and opens a new one
func (fs *FileStore) rotateFile() error {
	if fs.currentFile != nil {
		if err := fs.currentFile.Close(); err != nil {
			fs.logger.Warn().Err(err).Msg("Failed to close previous file")
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	var filename string
	for {
		filename = filepath.Join(fs.config.BaseDir, fmt.Sprintf("replay_%s_%04d.jsonl", timestamp, fs.fileIndex))
		fs.fileIndex++
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			break
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	fs.currentFile = file
	fs.currentSize = 0
	fs.stats.Files++

	fs.logger.Debug().
		Str("filename", filename).
		Msg("Rotated to new replay file")
	return nil
}

// Close flushes and closes the current file. Further writes fail.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return nil
	}
	fs.closed = true
	if fs.currentFile != nil {
		return fs.currentFile.Close()
	}
	return nil
}

// Stats returns store statistics
func (fs *FileStore) Stats() StoreStats {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.stats
}

// NullStore is a no-op store
type NullStore struct{}

func (n *NullStore) Write(ctx context.Context, frames []*structpb.Struct) error {
	return nil
}

func (n *NullStore) Read(ctx context.Context, gameID string, limit int) ([]*structpb.Struct, error) {
	return nil, nil
}

func (n *NullStore) Close() error {
	return nil
}

func (n *NullStore) Stats() StoreStats {
	return StoreStats{}
}

// NewStore creates a store based on configuration
func NewStore(config StoreConfig, logger zerolog.Logger) (Store, error) {
	switch config.Type {
	case StoreTypeNone, "":
		return &NullStore{}, nil
	case StoreTypeFile:
		return NewFileStore(config, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, config.Type)
	}
}
