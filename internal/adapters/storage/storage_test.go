package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "user_1/aadhar_card/scan.pdf", ObjectKey("user_1", "aadhar_card", "scan.pdf"))
	assert.Equal(t, "user_1/marksheet_10th/a.png", ObjectKey("user_1", "marksheet_10th", "../../a.png"))
	assert.Equal(t, "user_1/ration_card/b.jpg", ObjectKey("user_1", "ration_card", `C:\docs\b.jpg`))
	assert.Equal(t, "user_1/ration_card/file", ObjectKey("user_1", "ration_card", ".."))
}

func TestPublicURLEscapesSegments(t *testing.T) {
	got := PublicURL("docs", "ap-south-1", "user_1/aadhar_card/my scan.pdf")
	assert.Equal(t, "https://docs.s3.ap-south-1.amazonaws.com/user_1/aadhar_card/my%20scan.pdf", got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("docs")
	ctx := context.Background()

	loc, err := store.Put(ctx, "u/aadhar_card/a.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "memory://docs/u/aadhar_card/a.pdf", loc)

	data, ok := store.Object("u/aadhar_card/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "pdf", string(data))

	require.NoError(t, store.Delete(ctx, "u/aadhar_card/a.pdf"))
	assert.ErrorIs(t, store.Delete(ctx, "u/aadhar_card/a.pdf"), ErrObjectNotFound)
	assert.Empty(t, store.Keys())
}

func TestMemoryStoreHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore("docs").Put(ctx, "k", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "ap-south-1"})
	assert.Error(t, err)
}
