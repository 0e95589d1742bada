package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded files under a root directory. Airport images land
// in uploads/airports with a slugified name plus a uuid, so re-uploads
// never collide.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// SaveAirportImage stores the image and returns the path relative to the
// media root, which is what gets persisted and served.
func (s *Store) SaveAirportImage(airportName, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%s-%s%s", slugify(airportName), uuid.NewString(), ext)
	relPath := filepath.Join("airports", name)

	dir := filepath.Join(s.root, "airports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.root, relPath))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return relPath, nil
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
