package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	// Prefix is prepended to every object name to form its key.
	Prefix string
}

// Redis stores each object as a single string value. Objects are read whole
// on Open and written whole when a writer from Create is closed.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "pdfpipe:"
	}

	return &Redis{client: client, prefix: prefix}, nil
}

// memFile is an object held in memory.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// Open fetches the object stored under name.
func (r *Redis) Open(ctx context.Context, name string) (File, error) {
	data, err := r.client.Get(ctx, r.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return memFile{bytes.NewReader(data)}, nil
}

// redisWriter buffers an object until Close.
type redisWriter struct {
	ctx    context.Context
	r      *Redis
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *redisWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("redis write %s: writer closed", w.key)
	}
	return w.buf.Write(p)
}

// Close stores the buffered content. Later calls do nothing.
func (w *redisWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.r.client.Set(w.ctx, w.key, w.buf.Bytes(), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Create returns a writer that stores its content under name on Close.
func (r *Redis) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	return &redisWriter{ctx: ctx, r: r, key: r.prefix + name}, nil
}

// List scans for keys under the prefix and returns their object names.
func (r *Redis) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapePattern(r.prefix+prefix) + "*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	var names []string
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes the object stored under name.
func (r *Redis) Delete(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, r.prefix+name).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// escapePattern quotes the glob metacharacters understood by SCAN MATCH.
func escapePattern(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
