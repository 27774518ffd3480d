package treelate

// Store persists a TranslationStore as a single durable document.
// Implementations live in the store package.
//
// Load returns an empty store and a nil error when no data exists yet.
// A non-nil error from Load means the document exists but could not be
// read or parsed; callers recover by treating the store as empty.
// Save rewrites the whole document and fails with *StorageError.
type Store interface {
	Load() (TranslationStore, error)
	Save(TranslationStore) error
}
