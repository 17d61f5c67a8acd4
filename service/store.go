package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/AnTengye/legalintel/model"
)

// DocumentStore is an in-memory store for documents, iterated in upload order.
// Stored documents are treated as immutable snapshots: updates swap the
// pointer instead of mutating the stored value.
type DocumentStore struct {
	documents    map[string]*model.Document
	order        []string
	mu           sync.RWMutex
	maxDocuments int // Maximum documents to keep, 0 = unlimited
}

var (
	globalStore *DocumentStore
	storeOnce   sync.Once
)

// NewDocumentStore returns an empty store keeping at most maxDocuments.
func NewDocumentStore(maxDocuments int) *DocumentStore {
	if maxDocuments < 0 {
		maxDocuments = 0
	}
	return &DocumentStore{
		documents:    make(map[string]*model.Document),
		maxDocuments: maxDocuments,
	}
}

// InitDocumentStore initializes the global document store with configuration
func InitDocumentStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		globalStore = NewDocumentStore(cfg.MaxDocuments)
		slog.Info("document store initialized", "max_documents", globalStore.maxDocuments)
	})
}

// GetDocumentStore returns the global document store
func GetDocumentStore() *DocumentStore {
	storeOnce.Do(func() {
		// Fallback initialization with default settings
		globalStore = NewDocumentStore(0)
	})
	return globalStore
}

// Save inserts doc, or replaces the stored document with the same id in place.
// It returns the oldest documents evicted to stay within maxDocuments.
func (s *DocumentStore) Save(doc *model.Document) []*model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = doc

	// Cleanup if exceeds max
	return s.cleanupIfNeeded()
}

// Replace swaps in a new snapshot of an existing document.
func (s *DocumentStore) Replace(doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; !ok {
		return ErrDocumentNotFound
	}
	doc.UpdatedAt = time.Now()
	s.documents[doc.ID] = doc
	return nil
}

func (s *DocumentStore) Get(id string) *model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents[id]
}

// GetAll returns every document in upload order.
func (s *DocumentStore) GetAll() []*model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Document, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.documents[id])
	}
	return result
}

// GetMany returns the documents with the given ids in upload order; unknown
// ids are skipped.
func (s *DocumentStore) GetMany(ids []string) []*model.Document {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Document
	for _, id := range s.order {
		if want[id] {
			result = append(result, s.documents[id])
		}
	}
	return result
}

// Delete removes the document and reports whether it existed.
func (s *DocumentStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return false
	}
	delete(s.documents, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// cleanupIfNeeded removes the oldest uploads if store exceeds maxDocuments
// and returns them. Must be called with lock held
func (s *DocumentStore) cleanupIfNeeded() []*model.Document {
	if s.maxDocuments <= 0 {
		return nil // Unlimited
	}

	removeCount := len(s.order) - s.maxDocuments
	if removeCount <= 0 {
		return nil
	}

	evicted := make([]*model.Document, 0, removeCount)
	for _, id := range s.order[:removeCount] {
		doc := s.documents[id]
		slog.Info("auto-cleaning old document",
			"document_id", id,
			"filename", doc.Metadata.Filename,
		)
		evicted = append(evicted, doc)
		delete(s.documents, id)
	}
	s.order = append([]string(nil), s.order[removeCount:]...)
	return evicted
}

// Count returns the number of documents in the store
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
