package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

// S3Store is an implementation of Store backed by AWS S3. All tables share one
// bucket; an item is the object at "table/key".
type S3Store struct {
	bucket string
	client s3iface.S3API
}

func NewS3Store(profile, region, bucket string, opts ...Option) (*S3Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	sess, err := newSession(profile, region, o.endpoint)
	if err != nil {
		return nil, err
	}
	client := s3.New(sess, &aws.Config{
		// Local S3 lookalikes rarely support virtual-hosted buckets.
		S3ForcePathStyle: aws.Bool(o.endpoint != ""),
	})
	return NewS3StoreWithClient(client, bucket), nil
}

func NewS3StoreWithClient(client s3iface.S3API, bucket string) *S3Store {
	return &S3Store{
		bucket: bucket,
		client: client,
	}
}

func (s *S3Store) Get(ctx context.Context, table, key string) (value string, err error) {
	objectKey := s3ObjectKey(table, key)
	output, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		// A missing bucket is also a 404, but it's a fault, not a miss.
		switch awsCode(err) {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return "", notFound(table, key)
		}
		return "", awsError("get", table, key, err)
	}
	defer func() {
		if err := output.Body.Close(); err != nil {
			log.WithFields(log.Fields{
				"op":  "get",
				"key": objectKey,
			}).Warning("Could not close response body")
		}
	}()
	b, err := io.ReadAll(output.Body)
	if err != nil {
		return "", newError("get", table, key, err)
	}
	return string(b), nil
}

func (s *S3Store) Put(ctx context.Context, table, key, value string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3ObjectKey(table, key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return awsError("put", table, key, err)
	}
	return nil
}

// Both parts are escaped, so that a slash in either can't make two items share
// an object.
func s3ObjectKey(table, key string) string {
	return url.PathEscape(table) + "/" + url.PathEscape(key)
}
