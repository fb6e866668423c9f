// Package watcher regenerates emails when export files change. It
// watches the input folder, filters events by file name and debounces
// the rapid save bursts export tools tend to produce.
package watcher

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FolderWatcher watches one input folder for changed export files.
type FolderWatcher struct {
	watcher  *fsnotify.Watcher
	match    func(name string) bool
	callback func(path string)
	debounce time.Duration

	mu         sync.Mutex
	fileHashes map[string]string
	timers     map[string]*time.Timer
}

// NewFolderWatcher creates a watcher over folder. match filters event
// paths by file name; callback runs once per settled change.
func NewFolderWatcher(folder string, match func(string) bool, callback func(string), debounce time.Duration) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder watcher: %w", err)
	}
	if err := w.Add(folder); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch folder: %w", err)
	}

	return &FolderWatcher{
		watcher:    w,
		match:      match,
		callback:   callback,
		debounce:   debounce,
		fileHashes: make(map[string]string),
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Start begins dispatching change events. It returns immediately.
func (fw *FolderWatcher) Start() {
	go fw.watchLoop()
}

func (fw *FolderWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Only process write and create events
			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !fw.match(event.Name) {
				continue
			}
			fw.scheduleChange(event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Watcher error: %v", err)
		}
	}
}

// scheduleChange arms (or re-arms) the debounce timer for a path.
func (fw *FolderWatcher) scheduleChange(path string) {
	// If debounce is 0, process immediately
	if fw.debounce == 0 {
		go fw.handleFileChange(path)
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		delete(fw.timers, path)
		fw.mu.Unlock()
		fw.handleFileChange(path)
	})
}

// handleFileChange calls the callback only when the file content
// actually differs from the last seen state.
func (fw *FolderWatcher) handleFileChange(path string) {
	newHash, err := fileHash(path)
	if err != nil {
		log.Printf("⚠️  Failed to get hash for %s: %v", path, err)
		return
	}

	fw.mu.Lock()
	oldHash, seen := fw.fileHashes[path]
	fw.fileHashes[path] = newHash
	fw.mu.Unlock()

	if !seen || newHash != oldHash {
		fw.callback(path)
	}
}

// fileHash calculates the SHA-256 hash of a file.
func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// Close stops the watcher. Pending debounce timers are cancelled.
func (fw *FolderWatcher) Close() error {
	fw.mu.Lock()
	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}
