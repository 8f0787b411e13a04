package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestKey(t *testing.T) {
	at := time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "medicare/2025-03-31-abc.html", Key("medicare", at, "abc"))
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, "briefs", "/weekly/")

	uri, err := store.Put(context.Background(), "medicare/2025-03-31-abc.html", []byte("<html></html>"), ContentTypeHTML)
	require.NoError(t, err)

	assert.Equal(t, "s3://briefs/weekly/medicare/2025-03-31-abc.html", uri)
	require.NotNil(t, fake.input)
	assert.Equal(t, "briefs", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "weekly/medicare/2025-03-31-abc.html", aws.ToString(fake.input.Key))
	assert.Equal(t, ContentTypeHTML, aws.ToString(fake.input.ContentType))
	assert.Equal(t, "<html></html>", string(fake.body))
}

func TestS3Store_PutNoPrefix(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, "briefs", "")

	uri, err := store.Put(context.Background(), "k.html", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "s3://briefs/k.html", uri)
	assert.Nil(t, fake.input.ContentType)
}

func TestS3Store_PutError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	store := newS3Store(fake, "briefs", "")

	_, err := store.Put(context.Background(), "k.html", []byte("x"), ContentTypeHTML)

	var archiveErr *Error
	require.ErrorAs(t, err, &archiveErr)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}
