package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	TokensIssued       uint64
	AuthFailures       uint64
	RecipesCreated     uint64
	RecipesUpdated     uint64
	RecipesDeleted     uint64
	TagsCreated        uint64
	TagsDeleted        uint64
	IngredientsCreated uint64
	IngredientsDeleted uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated       uint64
	tokensIssued       uint64
	authFailures       uint64
	recipesCreated     uint64
	recipesUpdated     uint64
	recipesDeleted     uint64
	tagsCreated        uint64
	tagsDeleted        uint64
	ingredientsCreated uint64
	ingredientsDeleted uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:       atomic.LoadUint64(&m.usersCreated),
		TokensIssued:       atomic.LoadUint64(&m.tokensIssued),
		AuthFailures:       atomic.LoadUint64(&m.authFailures),
		RecipesCreated:     atomic.LoadUint64(&m.recipesCreated),
		RecipesUpdated:     atomic.LoadUint64(&m.recipesUpdated),
		RecipesDeleted:     atomic.LoadUint64(&m.recipesDeleted),
		TagsCreated:        atomic.LoadUint64(&m.tagsCreated),
		TagsDeleted:        atomic.LoadUint64(&m.tagsDeleted),
		IngredientsCreated: atomic.LoadUint64(&m.ingredientsCreated),
		IngredientsDeleted: atomic.LoadUint64(&m.ingredientsDeleted),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncTokenIssued increments the token issued counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}

// IncAuthFailure increments the auth failure counter.
func (m *InMemoryRecorder) IncAuthFailure() {
	atomic.AddUint64(&m.authFailures, 1)
}

// IncRecipeCreated increments the recipe created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}

// IncRecipeUpdated increments the recipe updated counter.
func (m *InMemoryRecorder) IncRecipeUpdated() {
	atomic.AddUint64(&m.recipesUpdated, 1)
}

// IncRecipeDeleted increments the recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncLabelCreated increments the created counter for the label kind.
func (m *InMemoryRecorder) IncLabelCreated(kind string) {
	if kind == "ingredient" {
		atomic.AddUint64(&m.ingredientsCreated, 1)
		return
	}
	atomic.AddUint64(&m.tagsCreated, 1)
}

// IncLabelDeleted increments the deleted counter for the label kind.
func (m *InMemoryRecorder) IncLabelDeleted(kind string) {
	if kind == "ingredient" {
		atomic.AddUint64(&m.ingredientsDeleted, 1)
		return
	}
	atomic.AddUint64(&m.tagsDeleted, 1)
}
