package models

const (
	ImageKindTripCover = "trip_cover"

	UploadStatusPending   = "pending"
	UploadStatusCompleted = "completed"
)

// Image is object-storage metadata. The bytes live in the bucket under
// StorageKey; the row tracks who owns them and whether the upload finished.
type Image struct {
	ID           string
	UserID       string
	Kind         string
	RefID        string
	StorageKey   string
	UploadStatus string
}

// UploadTask tells the client where to PUT the object.
type UploadTask struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}
