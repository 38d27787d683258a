package s3_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/storage"
	"github.com/dmitrymomot/contactcard/integration/storage/s3"
)

type mockClient struct {
	objects map[string]string
	err     error
	calls   []string
}

func (m *mockClient) GetObject(_ context.Context, in *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.calls = append(m.calls, key)
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &s3aws.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		LastModified:  &modified,
	}, nil
}

func newStorage(t *testing.T, client *mockClient, opts ...s3.Option) *s3.S3Storage {
	t.Helper()
	opts = append([]s3.Option{s3.WithS3Client(client)}, opts...)
	st, err := s3.New(context.Background(), s3.Config{Bucket: "cards", Region: "us-east-1"}, opts...)
	require.NoError(t, err)
	return st
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := s3.New(context.Background(), s3.Config{Bucket: "cards"})
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads object", func(t *testing.T) {
		t.Parallel()
		client := &mockClient{objects: map[string]string{"cards/scott.vcf": "BEGIN:VCARD"}}
		st := newStorage(t, client)

		obj, err := st.Read(ctx, "s3://cards/scott.vcf")
		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCARD", string(obj.Data))
		assert.Equal(t, "text/vcard; charset=utf-8", obj.ContentType)
		assert.Equal(t, 2024, obj.ModTime.Year())
	})

	t.Run("default bucket", func(t *testing.T) {
		t.Parallel()
		client := &mockClient{objects: map[string]string{"cards/nested/scott.vcf": "x"}}
		st := newStorage(t, client)

		_, err := st.Read(ctx, "s3:///nested/scott.vcf")
		require.NoError(t, err)
		assert.Equal(t, []string{"cards/nested/scott.vcf"}, client.calls)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		st := newStorage(t, &mockClient{})
		_, err := st.Read(ctx, "s3://cards/none.vcf")
		assert.ErrorIs(t, err, storage.ErrFileNotFound)
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		st := newStorage(t, &mockClient{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}})
		_, err := st.Read(ctx, "s3://cards/scott.vcf")
		assert.ErrorIs(t, err, storage.ErrAccessDenied)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		st := newStorage(t, &mockClient{err: context.Canceled})
		_, err := st.Read(ctx, "s3://cards/scott.vcf")
		assert.ErrorIs(t, err, storage.ErrOperationCanceled)
	})

	t.Run("unknown api error keeps cause", func(t *testing.T) {
		t.Parallel()
		cause := &smithy.GenericAPIError{Code: "Teapot", Message: "short and stout"}
		st := newStorage(t, &mockClient{err: cause})
		_, err := st.Read(ctx, "s3://cards/scott.vcf")
		var apiErr smithy.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Teapot", apiErr.ErrorCode())
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		client := &mockClient{objects: map[string]string{"cards/big.vcf": strings.Repeat("x", 64)}}
		st := newStorage(t, client, s3.WithMaxSize(8))
		_, err := st.Read(ctx, "s3://cards/big.vcf")
		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	})

	t.Run("invalid locations", func(t *testing.T) {
		t.Parallel()
		st := newStorage(t, &mockClient{})
		_, err := st.Read(ctx, "https://example.com/a.vcf")
		assert.ErrorIs(t, err, storage.ErrUnsupportedLocation)
		_, err = st.Read(ctx, "s3://cards/../secret")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
		_, err = st.Read(ctx, "s3://cards/")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("plugs into multi", func(t *testing.T) {
		t.Parallel()
		client := &mockClient{objects: map[string]string{"cards/scott.vcf": "BEGIN:VCARD"}}
		multi := storage.Multi{storage.NewLocalStorage(""), newStorage(t, client)}

		assert.True(t, multi.CanRead("s3://cards/scott.vcf"))
		obj, err := multi.Read(ctx, "s3://cards/scott.vcf")
		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCARD", string(obj.Data))
	})
}
