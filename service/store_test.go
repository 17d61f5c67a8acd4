package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/AnTengye/legalintel/model"
)

func newTestStore(maxDocuments int) *DocumentStore {
	return NewDocumentStore(maxDocuments)
}

func TestDocumentStoreSaveAndGet(t *testing.T) {
	store := newTestStore(100)

	doc := &model.Document{
		ID:        "test-id-1",
		Metadata:  model.Metadata{Filename: "test.pdf"},
		Status:    model.StatusCompleted,
		CreatedAt: time.Now(),
	}

	store.Save(doc)

	// Test Get
	retrieved := store.Get("test-id-1")
	if retrieved == nil {
		t.Fatal("Expected to retrieve document")
	}
	if retrieved.Metadata.Filename != "test.pdf" {
		t.Errorf("Expected filename test.pdf, got %s", retrieved.Metadata.Filename)
	}

	// Test Get non-existent
	notFound := store.Get("non-existent")
	if notFound != nil {
		t.Error("Expected nil for non-existent document")
	}
}

func TestDocumentStoreGetAllKeepsUploadOrder(t *testing.T) {
	store := newTestStore(0)

	for _, id := range []string{"c", "a", "b"} {
		store.Save(&model.Document{ID: id})
	}
	// saving an existing id keeps its position
	store.Save(&model.Document{ID: "a", Metadata: model.Metadata{Filename: "updated.pdf"}})

	all := store.GetAll()
	if len(all) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(all))
	}
	for i, want := range []string{"c", "a", "b"} {
		if all[i].ID != want {
			t.Errorf("Expected %s at %d, got %s", want, i, all[i].ID)
		}
	}
	if all[1].Metadata.Filename != "updated.pdf" {
		t.Errorf("Expected updated snapshot, got %s", all[1].Metadata.Filename)
	}
}

func TestDocumentStoreGetMany(t *testing.T) {
	store := newTestStore(0)
	for _, id := range []string{"1", "2", "3"} {
		store.Save(&model.Document{ID: id})
	}

	got := store.GetMany([]string{"3", "missing", "1"})
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Expected [1 3], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestDocumentStoreDelete(t *testing.T) {
	store := newTestStore(100)

	store.Save(&model.Document{ID: "delete-me", CreatedAt: time.Now()})

	if store.Get("delete-me") == nil {
		t.Fatal("Expected document to exist before delete")
	}

	if !store.Delete("delete-me") {
		t.Error("Expected delete to report an existing document")
	}
	if store.Get("delete-me") != nil {
		t.Error("Expected document to be deleted")
	}
	if len(store.GetAll()) != 0 {
		t.Error("Expected upload order to drop the deleted id")
	}
	if store.Delete("delete-me") {
		t.Error("Expected second delete to report a missing document")
	}
}

func TestDocumentStoreReplace(t *testing.T) {
	store := newTestStore(100)

	original := &model.Document{ID: "r", Status: model.StatusCompleted}
	store.Save(original)

	next := original.WithInsights(&model.Insights{RiskAssessment: model.RiskHigh})
	if err := store.Replace(next); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := store.Get("r"); got.Risk() != model.RiskHigh {
		t.Errorf("Expected High risk after replace, got %s", got.Risk())
	}
	if original.Insights != nil {
		t.Error("Expected the previous snapshot to stay untouched")
	}

	if err := store.Replace(&model.Document{ID: "missing"}); err != ErrDocumentNotFound {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentStoreAutoCleanup(t *testing.T) {
	store := newTestStore(3) // Max 3 documents

	// Add 5 documents
	for i := 0; i < 5; i++ {
		store.Save(&model.Document{
			ID:        string(rune('a' + i)),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	// Should only have 3 documents (newest)
	if store.Count() != 3 {
		t.Errorf("Expected 3 documents after cleanup, got %d", store.Count())
	}

	// Oldest documents should be removed
	if store.Get("a") != nil {
		t.Error("Expected oldest document 'a' to be removed")
	}
	if store.Get("b") != nil {
		t.Error("Expected second oldest document 'b' to be removed")
	}
	if all := store.GetAll(); len(all) != 3 || all[0].ID != "c" {
		t.Errorf("Expected order to start at 'c', got %v", all)
	}
}

func TestDocumentStoreUnlimitedDocuments(t *testing.T) {
	store := newTestStore(0) // Unlimited

	// Add 10 documents
	for i := 0; i < 10; i++ {
		store.Save(&model.Document{
			ID:        fmt.Sprintf("doc-%d", i),
			CreatedAt: time.Now(),
		})
	}

	// All should be present
	if store.Count() != 10 {
		t.Errorf("Expected 10 documents, got %d", store.Count())
	}
}

func TestDocumentStoreCount(t *testing.T) {
	store := newTestStore(100)

	if store.Count() != 0 {
		t.Error("Expected 0 documents initially")
	}

	store.Save(&model.Document{ID: "1", CreatedAt: time.Now()})
	store.Save(&model.Document{ID: "2", CreatedAt: time.Now()})

	if store.Count() != 2 {
		t.Errorf("Expected 2 documents, got %d", store.Count())
	}
}

func TestGetDocumentStore(t *testing.T) {
	// Just test that GetDocumentStore returns a non-nil store
	InitDocumentStore(&config.StoreConfig{MaxDocuments: 50})
	store := GetDocumentStore()
	if store == nil {
		t.Fatal("Expected non-nil store")
	}
	if store != GetDocumentStore() {
		t.Error("Expected the same global store on every call")
	}
}

func TestDocumentStoreSaveReturnsEvicted(t *testing.T) {
	store := newTestStore(2)

	for _, id := range []string{"a", "b"} {
		if evicted := store.Save(&model.Document{ID: id}); len(evicted) != 0 {
			t.Errorf("Expected no eviction, got %d", len(evicted))
		}
	}
	if evicted := store.Save(&model.Document{ID: "b", Metadata: model.Metadata{Filename: "b2.pdf"}}); len(evicted) != 0 {
		t.Errorf("Expected no eviction on replace, got %d", len(evicted))
	}

	evicted := store.Save(&model.Document{ID: "c"})
	if len(evicted) != 1 || evicted[0].ID != "a" {
		t.Fatalf("Expected document a to be evicted, got %v", evicted)
	}
	if store.Get("a") != nil {
		t.Error("Expected evicted document to be gone")
	}
}
