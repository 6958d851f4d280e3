package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCacheMiss is returned by caches when a key holds no value.
var ErrCacheMiss = errors.New("cache miss")

// CacheGeneration is the cache epoch observed by a read. Every listing write
// starts a new generation.
type CacheGeneration int64

// ListingCache stores search pages and single listings between writes.
// Implementations must treat every failure as a miss; callers never fail a
// request because of the cache.
//
// A miss returns ErrCacheMiss together with the current generation. The fill
// that follows must pass that generation back so an entry read before a
// concurrent write is stored where no later read looks.
type ListingCache interface {
	GetPage(ctx context.Context, q ListingQuery) (*ListingPage, CacheGeneration, error)
	SetPage(ctx context.Context, gen CacheGeneration, q ListingQuery, page *ListingPage) error
	GetListing(ctx context.Context, id primitive.ObjectID) (*ListingView, CacheGeneration, error)
	SetListing(ctx context.Context, gen CacheGeneration, view *ListingView) error
	// Invalidate drops the listing entry and every cached search page.
	Invalidate(ctx context.Context, id primitive.ObjectID) error
	// InvalidateAll drops every cached entry, e.g. after an owner profile edit.
	InvalidateAll(ctx context.Context) error
}

// Upload is a validated file received from a client.
type Upload struct {
	Field       string
	Ext         string
	ContentType string
	Data        []byte
}

// StoredFile is an object read back from storage. Body must be closed.
type StoredFile struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// FileStorage keeps uploaded files. Paths are the public "/uploads/..." form.
type FileStorage interface {
	Save(ctx context.Context, f Upload) (string, error)
	Open(ctx context.Context, path string) (*StoredFile, error)
	Remove(ctx context.Context, path string) error
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// EmailSender delivers a single message.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}
