package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/storage"
)

func TestConfigDefaults(t *testing.T) {
	cfg := storage.Config{Backend: storage.BackendS3, S3: storage.S3Config{Bucket: "reports", Prefix: "legal", Endpoint: "http://localhost:9000"}}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "legal/", cfg.S3.Prefix)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UsePathStyle())

	half := storage.Config{Backend: storage.BackendS3, S3: storage.S3Config{Bucket: "b", AccessKey: "k"}}
	assert.Error(t, half.Validate())
}

func TestBackend_KeysAndLocation(t *testing.T) {
	b, err := New(context.Background(), storage.S3Config{
		Bucket:    "reports",
		Prefix:    "legal/",
		Region:    "eu-west-3",
		Endpoint:  "http://localhost:9000/",
		AccessKey: "k",
		SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "legal/hearing_report.json", b.objectKey("/hearing_report.json"))
	assert.Equal(t, "http://localhost:9000/reports/legal/audience%201_report.json", b.Location("audience 1_report.json"))

	aws, err := New(context.Background(), storage.S3Config{Bucket: "b", Region: "eu-west-3", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "https://b.s3.eu-west-3.amazonaws.com/x.json", aws.Location("x.json"))

	aws.cfg.PathStyle = true
	assert.Equal(t, "https://s3.eu-west-3.amazonaws.com/b/x.json", aws.Location("x.json"))
}

func TestMissing(t *testing.T) {
	assert.True(t, missing(fmt.Errorf("get: %w", &types.NoSuchKey{})))
	assert.True(t, missing(&types.NotFound{}))
	assert.False(t, missing(fmt.Errorf("boom")))
}
