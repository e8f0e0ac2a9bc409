package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/filex"
	"github.com/dmitrijs2005/globetrotter/internal/netx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

// exportDir is where exports land when no destination is given.
const exportDir = "exports"

// TripService wraps the trip endpoints used by the CLI and the file work
// around them (saving exports, uploading covers).
type TripService interface {
	List(ctx context.Context, status string) ([]models.Trip, error)
	Create(ctx context.Context, in client.TripInput) (*models.Trip, error)
	Itinerary(ctx context.Context, tripID string) (*models.Itinerary, error)
	Budget(ctx context.Context, tripID string) (*models.Budget, error)
	Calendar(ctx context.Context, tripID string) ([]models.CalendarDay, error)
	Export(ctx context.Context, tripID, format, dest string) (string, error)
	UploadCover(ctx context.Context, tripID, path string) error
}

type tripService struct {
	client client.Client
	upload *http.Client
}

// NewTripService uses uploader for presigned PUTs; nil means
// http.DefaultClient.
func NewTripService(c client.Client, uploader *http.Client) TripService {
	return &tripService{client: c, upload: uploader}
}

func (s *tripService) List(ctx context.Context, status string) ([]models.Trip, error) {
	return s.client.ListTrips(ctx, strings.ToLower(strings.TrimSpace(status)))
}

func (s *tripService) Create(ctx context.Context, in client.TripInput) (*models.Trip, error) {
	return s.client.CreateTrip(ctx, in)
}

func (s *tripService) Itinerary(ctx context.Context, tripID string) (*models.Itinerary, error) {
	return s.client.Itinerary(ctx, tripID)
}

func (s *tripService) Budget(ctx context.Context, tripID string) (*models.Budget, error) {
	return s.client.Budget(ctx, tripID)
}

func (s *tripService) Calendar(ctx context.Context, tripID string) ([]models.CalendarDay, error) {
	return s.client.Calendar(ctx, tripID)
}

// Export downloads the itinerary and writes it to dest. An empty dest means
// ./exports/<server-suggested name>. The written path is returned.
func (s *tripService) Export(ctx context.Context, tripID, format, dest string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	f, err := s.client.Export(ctx, tripID, format)
	if err != nil {
		return "", err
	}

	if dest == "" {
		dir, err := filex.EnsureSubDir("", exportDir)
		if err != nil {
			return "", err
		}
		name := f.Filename
		if name == "" {
			name = tripID + "." + format
		}
		dest = filepath.Join(dir, filepath.Base(name))
	}

	if err := os.WriteFile(dest, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return dest, nil
}

// UploadCover sends the image at path straight to object storage and then
// attaches it to the trip.
func (s *tripService) UploadCover(ctx context.Context, tripID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cover: %w", err)
	}

	task, err := s.client.RequestCoverUpload(ctx, tripID)
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, s.upload, task.URL, contentType(path, data), data); err != nil {
		return err
	}

	return s.client.CompleteCoverUpload(ctx, tripID, task.StorageKey)
}

func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
