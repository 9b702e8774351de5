package upload

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/session"
)

// File is a selected file whose content is opened on demand.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileFromPath selects a file on disk; its base name is the display name.
func FileFromPath(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileFromBytes selects in-memory content under name.
func FileFromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// UploadFiles uploads the first of files. It is a single-file operation:
// with no files it does nothing and returns (nil, nil); additional files are
// ignored.
func (c *Coordinator) UploadFiles(ctx context.Context, s *session.Session, files []File, preserveName bool, opts ...Option) (*Result, error) {
	if len(files) == 0 {
		zap.L().Debug("no file selected, nothing to upload")
		return nil, nil
	}
	if len(files) > 1 {
		zap.L().Warn("only the first selected file is uploaded",
			zap.String("name", files[0].Name),
			zap.Int("ignored", len(files)-1))
	}

	f := files[0]
	if f.Open == nil {
		return nil, &UploadError{Name: f.Name, Err: ErrNoContent}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &UploadError{Name: f.Name, Err: err}
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			zap.L().Error("failed to close upload source", zap.String("name", f.Name), zap.Error(err))
		}
	}(rc)

	return c.Upload(ctx, s, Request{Content: rc, Name: f.Name, PreserveName: preserveName}, opts...)
}
