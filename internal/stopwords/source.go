package stopwords

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Source yields the raw lines of a stopword list. Implementations report an
// absent list as an empty slice rather than an error.
type Source interface {
	Lines(ctx context.Context) ([]string, error)
}

// Info describes the backing list for the admin listing.
type Info struct {
	Exists       bool
	LastModified time.Time
	Size         int64
}

// StaticSource serves a fixed list of lines.
type StaticSource []string

func (s StaticSource) Lines(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// FileSource reads one term per line from a UTF-8 text file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Lines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		return nil, nil
	}

	lines, err := readLines(file)
	if err != nil {
		return nil, nil
	}
	return lines, nil
}

// Stat reports whether the list exists and when it was last modified.
func (f *FileSource) Stat() Info {
	info, err := os.Stat(f.Path)
	if err != nil || info.IsDir() {
		return Info{}
	}
	return Info{Exists: true, LastModified: info.ModTime(), Size: info.Size()}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				lines = append(lines, line)
			}
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// CachedSource keeps the last read of a FileSource and only re-reads the file
// when its modification time or size changes.
type CachedSource struct {
	file *FileSource

	mu     sync.Mutex
	cached Info
	lines  []string
}

func NewCachedSource(file *FileSource) *CachedSource {
	return &CachedSource{file: file}
}

func (c *CachedSource) Lines(ctx context.Context) ([]string, error) {
	info := c.file.Stat()
	if !info.Exists {
		c.mu.Lock()
		c.cached, c.lines = Info{}, nil
		c.mu.Unlock()
		return nil, nil
	}

	c.mu.Lock()
	if c.cached.Exists && c.cached.LastModified.Equal(info.LastModified) && c.cached.Size == info.Size {
		lines := append([]string(nil), c.lines...)
		c.mu.Unlock()
		return lines, nil
	}
	c.mu.Unlock()

	lines, err := c.file.Lines(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached, c.lines = info, lines
	c.mu.Unlock()
	return append([]string(nil), lines...), nil
}

func (c *CachedSource) Stat() Info {
	return c.file.Stat()
}
