package storage

import (
	"os"
	"strings"

	"predictor/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Logical blob roots, keyed by session uid below them.
const (
	StorageLocationOriginal  = "original"
	StorageLocationPredicted = "predicted"
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string `gorm:"type:varchar(200)"` // S3 bucket name, or just a label for disk
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Endpoint    string `gorm:"type:varchar(300)"` // Custom S3 endpoint, empty for AWS
	Region      string `gorm:"type:varchar(50)"`
	AuthDetails string // Authentication details. In case of S3 bucket - "key:secret"
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		if err = os.MkdirAll(b.Path+"/"+StorageLocationOriginal, 0777); err != nil {
			return err
		}
		if err = os.MkdirAll(b.Path+"/"+StorageLocationPredicted, 0777); err != nil {
			return err
		}
	}
	return nil
}

// GetRemotePath returns the object key for the given logical path.
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.TrimSuffix(b.Path, "/") + "/" + path
}

// CreateSVC creates an S3 client from the bucket's auth details.
func (b *Bucket) CreateSVC() *s3.S3 {
	creds := strings.SplitN(b.AuthDetails, ":", 2)
	if len(creds) != 2 {
		panic("S3 bucket auth details must be in key:secret format")
	}
	awsConfig := aws.Config{
		Credentials: credentials.NewStaticCredentials(creds[0], creds[1], ""),
		Region:      aws.String(b.Region),
	}
	if b.Endpoint != "" {
		awsConfig.Endpoint = aws.String(b.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&awsConfig)))
}
