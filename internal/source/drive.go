package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/drive"
)

// DriveFiles is the subset of the Drive client the source needs.
type DriveFiles interface {
	GetFile(ctx context.Context, fileID string) (*drive.File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

type driveSource struct {
	files  DriveFiles
	fileID string
}

// NewDriveSource downloads a JSON or YAML dataset file from Google Drive.
func NewDriveSource(files DriveFiles, fileID string) (Source, error) {
	if fileID == "" {
		return nil, fmt.Errorf("drive source requires SOURCE_DRIVE_FILE_ID")
	}
	return &driveSource{files: files, fileID: fileID}, nil
}

func (s *driveSource) Kind() string { return KindDrive }

func (s *driveSource) Load(ctx context.Context) (*domain.Dataset, error) {
	meta, err := s.files.GetFile(ctx, s.fileID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.files.DownloadFile(ctx, s.fileID, &buf); err != nil {
		return nil, err
	}

	return Decode(buf.Bytes(), FormatFromName(meta.Name))
}

func (s *driveSource) Close() error { return nil }
