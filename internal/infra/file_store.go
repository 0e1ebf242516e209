package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"itinera/pkg/utils"
)

const UploadURLPrefix = "/uploads"

type StoredFile struct {
	Name string
	URL  string
	Size int64
}

// FileStore publishes uploaded files where the static handler serves them.
type FileStore interface {
	Publish(srcPath, ext string) (*StoredFile, error)
	Remove(name string) error
	Dir() string
}

type localFileStore struct {
	dir string
	now func() time.Time
}

func NewLocalFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localFileStore{dir: dir, now: time.Now}, nil
}

func (s *localFileStore) Dir() string { return s.dir }

// Publish copies srcPath to itinerary-<unixMillis>-<suffix><ext>.
func (s *localFileStore) Publish(srcPath, ext string) (*StoredFile, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	for attempt := 0; attempt < 3; attempt++ {
		suffix, err := utils.RandomSuffix(9)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("itinerary-%d-%s%s", s.now().UnixMilli(), suffix, strings.ToLower(ext))

		dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		n, copyErr := io.Copy(dst, src)
		closeErr := dst.Close()
		if err := errors.Join(copyErr, closeErr); err != nil {
			_ = os.Remove(dst.Name())
			return nil, err
		}

		return &StoredFile{
			Name: name,
			URL:  path.Join(UploadURLPrefix, name),
			Size: n,
		}, nil
	}
	return nil, errors.New("could not allocate a unique upload name")
}

func (s *localFileStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored file name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
