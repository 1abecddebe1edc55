package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestPut(t *testing.T) {
	f := &fakeS3{}
	a := &AgreementArchive{client: f, bucket: "agreements", prefix: "agreements/"}
	r := &models.Rental{ID: 9, Reference: "abc", ClientName: "Asha", AgreementHTML: "<p>signed</p>"}

	require.NoError(t, a.Put(context.Background(), r))
	assert.Equal(t, "agreements", aws.ToString(f.input.Bucket))
	assert.Equal(t, "agreements/abc.html", aws.ToString(f.input.Key))
	assert.Equal(t, "<p>signed</p>", f.body)
	assert.Equal(t, "9", f.input.Metadata["rental-id"])
}

func TestPut_Error(t *testing.T) {
	a := &AgreementArchive{client: &fakeS3{err: errors.New("denied")}, bucket: "b", prefix: "x"}
	err := a.Put(context.Background(), &models.Rental{Reference: "r1"})
	assert.ErrorContains(t, err, "r1")
}

func TestNewAgreementArchive_Disabled(t *testing.T) {
	a, err := NewAgreementArchive(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, a)
}
