package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by [S3Store].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Config holds the connection settings for NewS3Client.
type S3Config struct {
	Region          string
	Endpoint        string // optional, for MinIO, R2 and other S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	UsePathStyle    bool
}

// NewS3Client builds an [s3.Client] from static credentials. Leave the keys
// empty for anonymous access.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			SessionToken:    cfg.SessionToken,
			Source:          "streamio",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(opts)
}

// S3Store is a FileStore over one bucket of Amazon S3 or an S3-compatible
// object store. Paths become object keys under an optional prefix.
//
// Objects are streamed in both directions: Read hands out the GetObject body
// and Write feeds PutObject through a pipe, so neither side holds a whole
// object in memory.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 returns an S3Store for bucket. Leading and trailing slashes of prefix
// are ignored; pass "" to use bare keys.
func NewS3(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// objectKey maps a storage path to its object key.
func (s *S3Store) objectKey(path string) (*string, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	if s.prefix != "" {
		path = s.prefix + "/" + path
	}
	return aws.String(path), nil
}

// Read streams the object at path. Reads fail with the context error once
// ctx is done. A missing object yields an error wrapping os.ErrNotExist.
func (s *S3Store) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	key, err := s.objectKey(path)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: key})
	if isS3NotFound(err) {
		return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return ContextReader(ctx, out.Body), nil
}

// Write starts an upload of path. The object appears only when Close
// returns nil; Abort fails the upload instead.
func (s *S3Store) Write(ctx context.Context, path string) (io.WriteCloser, error) {
	key, err := s.objectKey(path)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	u := &s3Upload{path: path, pw: pw, done: make(chan struct{})}
	go func() {
		defer close(u.done)
		_, u.err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    key,
			Body:   pr,
		})
		// A failed upload stops reading; release the writer side.
		pr.CloseWithError(u.err)
	}()
	return u, nil
}

// Delete removes the object at path. Missing objects are not an error.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	key, err := s.objectKey(path)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// Exists reports whether an object is stored at path.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := s.objectKey(path)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: key})
	switch {
	case err == nil:
		return true, nil
	case isS3NotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("storage: exists %s: %w", path, err)
	}
}

// s3Upload is the writer side of a PutObject call reading from a pipe.
type s3Upload struct {
	path   string
	pw     *io.PipeWriter
	done   chan struct{}
	err    error
	closed bool
}

func (u *s3Upload) Write(p []byte) (int, error) {
	if u.closed {
		return 0, os.ErrClosed
	}
	return u.pw.Write(p)
}

// Close ends the object body and waits for PutObject to finish.
func (u *s3Upload) Close() error {
	if u.closed {
		return os.ErrClosed
	}
	u.closed = true
	u.pw.Close()
	<-u.done
	if u.err != nil {
		return fmt.Errorf("storage: write %s: %w", u.path, u.err)
	}
	return nil
}

// Abort fails the body with cause so PutObject never completes the object.
func (u *s3Upload) Abort(cause error) error {
	if u.closed {
		return os.ErrClosed
	}
	u.closed = true
	if cause == nil {
		cause = io.ErrClosedPipe
	}
	u.pw.CloseWithError(cause)
	<-u.done
	return nil
}

// isS3NotFound reports whether err is S3's answer for a missing object:
// NoSuchKey from GetObject or NotFound from HeadObject.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "NoSuchKey" || code == "NotFound"
}

var _ FileStore = (*S3Store)(nil)
