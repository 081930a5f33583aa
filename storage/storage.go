package storage

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"predictor/config"
	"predictor/db"
)

// StorageAPI is the blob store contract: durable reads/writes of original
// and annotated images addressed by a logical path ("original/<uid>.jpg",
// "predicted/<uid>.jpg").
type StorageAPI interface {
	// GetFullPath returns a locally readable path for the blob. For remote
	// backends this is a temp location, valid after EnsureLocalFile.
	GetFullPath(path string) string
	// EnsureLocalFile makes sure GetFullPath points at actual content.
	EnsureLocalFile(path string) error
	// ReleaseLocalFile frees a temp copy created by EnsureLocalFile.
	ReleaseLocalFile(path string)

	GetSize(path string) int64
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

var cachedStorage []StorageAPI

func Init() {
	db.Instance.AutoMigrate(&Bucket{})

	var buckets []Bucket
	if err := db.Instance.Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 && config.DEFAULT_BUCKET_DIR != "" {
		bucket := Bucket{
			Name:        "default",
			StorageType: StorageTypeFile,
			Path:        config.DEFAULT_BUCKET_DIR,
		}
		if err := bucket.Create(); err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	log.Printf("Storage Buckets found: %d\n", len(buckets))

	cachedStorage = []StorageAPI{}
	for i := range buckets {
		bucket := &buckets[i]
		if bucket.StorageType == StorageTypeFile {
			cachedStorage = append(cachedStorage, NewDiskStorage(bucket))
		} else if bucket.StorageType == StorageTypeS3 {
			cachedStorage = append(cachedStorage, NewS3Storage(bucket))
		} else {
			panic(fmt.Sprintf("Storage type unavailable for Bucket %d", bucket.ID))
		}
	}
}

func StorageFrom(bucket *Bucket) StorageAPI {
	for _, s := range cachedStorage {
		if s.GetBucket().ID == bucket.ID {
			return s
		}
	}
	return nil
}

func GetDefaultStorage() StorageAPI {
	if len(cachedStorage) == 0 {
		panic("no storage available")
	}
	for _, s := range cachedStorage {
		if s.GetBucket().StorageType == StorageTypeFile {
			return s
		}
	}
	return cachedStorage[0]
}

// OriginalPath returns the logical path of an uploaded image.
func OriginalPath(filename string) string {
	return StorageLocationOriginal + "/" + filename
}

// PredictedPath returns the logical path of an annotated image.
func PredictedPath(filename string) string {
	return StorageLocationPredicted + "/" + filename
}
