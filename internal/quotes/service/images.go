package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/storage"
)

// StorageImageFinder resolves quote images from object storage with a
// fixed fallback order: the quote's own reference uploads first, then the
// newest image attached to its message thread.
type StorageImageFinder struct {
	store          storage.ObjectStore
	uploadsBucket  string
	messagesBucket string
}

// NewStorageImageFinder creates the image finder.
func NewStorageImageFinder(store storage.ObjectStore, uploadsBucket, messagesBucket string) *StorageImageFinder {
	return &StorageImageFinder{
		store:          store,
		uploadsBucket:  uploadsBucket,
		messagesBucket: messagesBucket,
	}
}

var _ ImageFinder = (*StorageImageFinder)(nil)

// FindQuoteImage returns the representative image key for a quote, or nil
// when the quote has none anywhere.
func (f *StorageImageFinder) FindQuoteImage(ctx context.Context, quoteType string, quoteID uuid.UUID) (*string, error) {
	prefix := fmt.Sprintf("%s/%s/", quoteType, quoteID)

	// Reference uploads win; the listing is key-ordered, so this is the
	// first image the requester uploaded.
	uploads, err := f.store.ListByPrefix(ctx, f.uploadsBucket, prefix)
	if err != nil {
		return nil, err
	}
	for _, obj := range uploads {
		if isImageKey(obj.Key) {
			key := obj.Key
			return &key, nil
		}
	}

	// Fall back to the newest image in the message thread.
	messages, err := f.store.ListByPrefix(ctx, f.messagesBucket, prefix)
	if err != nil {
		return nil, err
	}
	var newest *storage.ObjectInfo
	for i := range messages {
		if !isImageKey(messages[i].Key) {
			continue
		}
		if newest == nil || messages[i].LastModified.After(newest.LastModified) {
			newest = &messages[i]
		}
	}
	if newest != nil {
		key := newest.Key
		return &key, nil
	}

	return nil, nil
}

func isImageKey(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
