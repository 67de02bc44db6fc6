// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the slice of the S3 client the store needs.
type s3API interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
}

// S3Options describes where an S3Store keeps its entries and how the client
// is built. Empty fields inherit the shell's AWS setup (AWS_PROFILE, shared
// config, env, IMDS).
type S3Options struct {
	Bucket    string
	Prefix    string
	Profile   string
	Region    string
	Endpoint  string
	PathStyle bool
}

// S3Store keeps one object per entry at <prefix>/<kind dir>/<id>. A single
// PutObject is atomic, so readers never see a partial entry.
type S3Store struct {
	bucket string
	prefix string
	client s3API
}

// NewS3Store loads AWS config per opts and returns a store backed by it.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 store requires a bucket")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3v2.NewFromConfig(cfg, func(o *s3v2.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = awsv2.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return newS3Store(client, opts.Bucket, opts.Prefix), nil
}

func newS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		client: client,
	}
}

// Key returns the object key for kind and id.
func (s *S3Store) Key(kind Kind, id ID) string {
	return path.Join(s.prefix, kind.Dir(), id.String())
}

func (s *S3Store) Exists(ctx context.Context, kind Kind, id ID) (bool, error) {
	if err := kind.valid(); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.Key(kind, id)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to head %s entry %s: %w", kind, id, err)
}

func (s *S3Store) Load(ctx context.Context, kind Kind, id ID) (Raw, error) {
	if err := kind.valid(); err != nil {
		return nil, err
	}
	key := s.Key(kind, id)
	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s entry %s: %w", kind, id, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s entry %s: %w", kind, id, err)
	}
	raw, err := ParseRaw(b)
	if err != nil {
		return nil, &CorruptEntryError{Kind: kind, ID: id, Location: s.uri(key), Err: err}
	}
	log.Debugf("store hit: %s", s.uri(key))
	return raw, nil
}

func (s *S3Store) Persist(ctx context.Context, kind Kind, id ID, raw Raw) error {
	if err := kind.valid(); err != nil {
		return err
	}
	data, err := raw.Bytes()
	if err != nil {
		return err
	}
	key := s.Key(kind, id)
	if _, err := s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awsv2.Int64(int64(len(data))),
		ContentType:   awsv2.String("application/json"),
	}); err != nil {
		return fmt.Errorf("failed to put %s entry %s: %w", kind, id, err)
	}
	log.Debugf("store write: %s", s.uri(key))
	return nil
}

// IDs lists the identifiers stored under the kind's prefix, ascending.
func (s *S3Store) IDs(ctx context.Context, kind Kind) ([]ID, error) {
	if err := kind.valid(); err != nil {
		return nil, err
	}
	dir := path.Join(s.prefix, kind.Dir()) + "/"
	p := s3v2.NewListObjectsV2Paginator(s.client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(s.bucket),
		Prefix: awsv2.String(dir),
	})

	var ids []ID
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s entries: %w", kind, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(awsv2.ToString(obj.Key), dir)
			id, err := ParseID(name)
			if err != nil {
				log.Debugf("ignoring stray object %s", name)
				continue
			}
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids, nil
}

func (s *S3Store) String() string {
	return s.uri(s.prefix)
}

func (s *S3Store) uri(key string) string {
	return "s3://" + path.Join(s.bucket, key)
}

// isNotFound matches the typed and the generic forms of a missing object.
func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
