package loader

import (
	"context"

	"CandleScope/internal/model"
)

// Source defines where a chart's series comes from.
type Source interface {
	Load(ctx context.Context) (model.Series, error)
	Name() string
}

// FileSource loads a CSV file from disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "csv:" + f.Path }

func (f *FileSource) Load(ctx context.Context) (model.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path)
}
