// Package source fetches the raw timetable export from a file or a URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

var (
	// ErrEmpty is returned when the export has no content.
	ErrEmpty = errors.New("source: timetable is empty")
	// ErrNotWatchable is returned by Watch for sources without change events.
	ErrNotWatchable = errors.New("source: location cannot be watched")
	// ErrStatus matches every StatusError.
	ErrStatus = errors.New("source: unexpected status")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source: failed to load %s: %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Source produces the raw export text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Location() string
}

// Open returns an HTTP source for http(s) URLs and a file source otherwise.
// A leading "~" in file paths is expanded.
func Open(location string, client *http.Client) (Source, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return nil, errors.New("source: no timetable location configured")
	}
	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
		return &HTTP{URL: loc, Client: client}, nil
	}
	path, err := homedir.Expand(loc)
	if err != nil {
		return nil, fmt.Errorf("source: expand %s: %w", loc, err)
	}
	return &File{Path: path}, nil
}

// File reads the export from disk.
type File struct {
	Path string
}

// Location returns the file path.
func (f *File) Location() string { return f.Path }

// Fetch reads the whole file.
func (f *File) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", f.Path, err)
	}
	return nonEmpty(string(b))
}

// HTTP downloads the export.
type HTTP struct {
	URL    string
	Client *http.Client
}

// Location returns the URL.
func (h *HTTP) Location() string { return h.URL }

// Fetch performs a GET and returns the body of a 2xx response.
func (h *HTTP) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return "", fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, */*")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("source: fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{URL: h.URL, Status: resp.Status, Code: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("source: read body: %w", err)
	}
	return nonEmpty(string(b))
}

func nonEmpty(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmpty
	}
	return raw, nil
}
