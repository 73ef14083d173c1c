package proto

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"google.golang.org/protobuf/types/known/structpb"
)

// VideoToStruct encodes v for the SaveVideo response.
func VideoToStruct(v *models.Video) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"path":      v.Path,
		"name":      v.Name,
		"size":      float64(v.Size),
		"createdAt": v.CreatedAt.UTC().Format(time.RFC3339Nano),
		"checksum":  v.Checksum,
	})
}

// VideoFromStruct is the inverse of VideoToStruct.
func VideoFromStruct(s *structpb.Struct) (*models.Video, error) {
	if s == nil {
		return nil, fmt.Errorf("empty video message")
	}
	f := s.GetFields()
	path := f["path"].GetStringValue()
	if path == "" {
		return nil, fmt.Errorf("video message without path")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, f["createdAt"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("video createdAt: %w", err)
	}
	v := &models.Video{
		Path:      path,
		Name:      f["name"].GetStringValue(),
		Size:      int64(f["size"].GetNumberValue()),
		CreatedAt: createdAt,
		Checksum:  f["checksum"].GetStringValue(),
	}
	if v.Name == "" {
		v.Name = models.NameFromPath(path)
	}
	return v, nil
}
