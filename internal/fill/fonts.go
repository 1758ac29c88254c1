package fill

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// FontLoadError reports a signature font asset that could not be read.
// It never fails a generation: rendering falls back to the default
// oblique font for the affected key.
type FontLoadError struct {
	Key  string
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("font %q: loading %s: %v", e.Key, e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// loadFontRegistry reads every configured font asset into memory, in key
// order. Fonts that fail to read are logged and dropped; their keys fall
// back to the default font at draw time.
func loadFontRegistry(paths map[string]string, debugMode bool) map[string][]byte {
	registry := make(map[string][]byte, len(paths))

	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data, err := os.ReadFile(paths[key])
		if err != nil {
			loadErr := &FontLoadError{Key: key, Path: paths[key], Err: err}
			log.Printf("fill: %v, falling back to the default signature font", loadErr)
			continue
		}
		registry[key] = data
		if debugMode {
			log.Printf("fill: loaded signature font %q (%d bytes)", key, len(data))
		}
	}
	return registry
}
