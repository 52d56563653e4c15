package mqreader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const processedSuffix = ".done"

// SpoolSource reads raw PCF payloads from *.pcf files dropped into
// spool directories, one message per file. Used for air-gapped capture
// replay and offline analysis. Consumed files are renamed with a .done
// suffix so a crash between read and rename re-delivers rather than
// loses.
type SpoolSource struct {
	dirs []string
}

// NewSpoolSource creates a spool source over the given directories
func NewSpoolSource(dirs []string) (*SpoolSource, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("at least one spool directory is required")
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("spool directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("spool path %s is not a directory", dir)
		}
	}
	return &SpoolSource{dirs: dirs}, nil
}

// Drain reads and consumes every pending *.pcf file, in name order per
// directory. Files whose name contains "acct" are tagged accounting,
// the rest statistics.
func (s *SpoolSource) Drain(ctx context.Context) ([]RawMessage, error) {
	var messages []RawMessage

	for _, dir := range s.dirs {
		paths, err := filepath.Glob(filepath.Join(dir, "*.pcf"))
		if err != nil {
			return messages, fmt.Errorf("failed to scan spool directory %s: %w", dir, err)
		}
		sort.Strings(paths)

		for _, path := range paths {
			if ctx.Err() != nil {
				return messages, ctx.Err()
			}

			body, err := os.ReadFile(path)
			if err != nil {
				log.Warn().
					Str("file", path).
					Err(err).
					Msg("Skipping unreadable spool file")
				continue
			}

			info, err := os.Stat(path)
			if err != nil {
				return messages, fmt.Errorf("failed to stat %s: %w", path, err)
			}

			messages = append(messages, RawMessage{
				Kind:      kindFromName(filepath.Base(path)),
				Body:      body,
				Timestamp: info.ModTime(),
				Origin:    path,
			})

			if err := os.Rename(path, path+processedSuffix); err != nil {
				return messages, fmt.Errorf("failed to mark %s processed: %w", path, err)
			}
		}
	}

	log.Debug().
		Int("messages", len(messages)).
		Msg("Drained spool directories")

	return messages, nil
}

// Close is a no-op for the spool source
func (s *SpoolSource) Close() error {
	return nil
}

func kindFromName(name string) string {
	if strings.Contains(strings.ToLower(name), "acct") {
		return KindAccounting
	}
	return KindStatistics
}
