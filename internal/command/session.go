// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/collection"
	"github.com/staranto/confdoc/internal/config"
	"github.com/staranto/confdoc/internal/hydrate"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/record"
	"github.com/staranto/confdoc/internal/store"
	"github.com/staranto/confdoc/internal/twitter"
)

// session is the store and hydrator for one conference.
type session struct {
	hashtag  string
	store    store.Store
	hydrator *hydrate.Hydrator
}

// openSession resolves the hashtag, opens its store and, unless --offline is
// set or no credentials are configured, attaches the API client.
func openSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	tag := strings.TrimPrefix(strings.TrimSpace(cmd.String("hashtag")), "#")
	if tag == "" {
		var err error
		if tag, err = config.Hashtag(); err != nil {
			return nil, fmt.Errorf("pass --hashtag or configure one: %w", err)
		}
	}

	st, err := store.Open(ctx, store.Spec{
		Backend: cmd.String("backend"),
		Dir:     cmd.String("cache-dir"),
		Hashtag: tag,
		S3:      s3Options(),
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("store: %s", st)

	src, err := newSource(cmd)
	if err != nil {
		return nil, err
	}

	return &session{
		hashtag:  tag,
		store:    st,
		hydrator: hydrate.New(st, src),
	}, nil
}

// build loads the ids named on the command line into a collection.
func (s *session) build(ctx context.Context, cmd *cli.Command, m meta.Meta) (*collection.Collection, error) {
	ids, err := collectIDs(ctx, cmd, m, s.store)
	if err != nil {
		return nil, err
	}
	log.Debugf("loading %d ids", len(ids))

	var opts []collection.Option
	if p := newProgress(m.Stderr, cmd.Bool("progress")); p != nil {
		opts = append(opts, collection.WithProgress(p))
	}

	return collection.Build(ctx, record.PostLoader(s.hydrator), ids, opts...)
}

func s3Options() store.S3Options {
	var opts store.S3Options
	opts.Bucket, _ = config.GetString("cache.s3.bucket", "")
	opts.Prefix, _ = config.GetString("cache.s3.prefix", "")
	opts.Profile, _ = config.GetString("cache.s3.profile", "")
	opts.Region, _ = config.GetString("cache.s3.region", "")
	opts.Endpoint, _ = config.GetString("cache.s3.endpoint", "")
	opts.PathStyle, _ = config.GetBool("cache.s3.path_style", false)
	return opts
}

// newSource returns the API client, or nil when records may only come from
// the cache.
func newSource(cmd *cli.Command) (hydrate.Source, error) {
	if cmd.Bool("offline") {
		log.Debug("offline; cache misses will not be fetched")
		return nil, nil
	}

	var opts twitter.Options
	opts.BearerToken = credential("CONFDOC_BEARER_TOKEN", "credentials.bearer_token")
	opts.ConsumerKey = credential("CONFDOC_CONSUMER_KEY", "credentials.consumer_key")
	opts.ConsumerSecret = credential("CONFDOC_CONSUMER_SECRET", "credentials.consumer_secret")
	opts.BaseURL, _ = config.GetString("api.base_url", twitter.DefaultBaseURL)
	opts.RPS, _ = config.GetFloat("api.rps", twitter.DefaultRPS)
	opts.RetryMax, _ = config.GetInt("api.retry_max", 0)

	client, err := twitter.New(opts)
	if errors.Is(err, twitter.ErrNoCredentials) {
		log.WithError(err).Warn("only cached records are available")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// credential prefers the environment over the config file.
func credential(env, key string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	v, _ := config.GetString(key, "")
	return v
}
