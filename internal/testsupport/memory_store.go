// Package testsupport holds in-memory stand-ins for the gorm repositories.
package testsupport

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/repositories"
)

// MemoryStore implements every repository interface over maps. Timestamps
// advance one millisecond per write so ordering is deterministic.
type MemoryStore struct {
	mu          sync.Mutex
	clock       int64
	itineraries map[uuid.UUID]*dbm.Itinerary
	travelers   map[uuid.UUID]*dbm.Traveler
	accounts    map[uuid.UUID]*dbm.Account
	embeddings  map[uuid.UUID]*dbm.ItineraryEmbedding

	NotificationLogs []dbm.NotificationLog
	ChatQueries      []dbm.ChatQuery

	// Err, when set, is returned by every call.
	Err error
}

var (
	_ repositories.ItineraryRepository       = (*MemoryStore)(nil)
	_ repositories.TravelerRepository        = (*MemoryStore)(nil)
	_ repositories.AccountRepository         = (*MemoryStore)(nil)
	_ repositories.NotificationLogRepository = (*MemoryStore)(nil)
	_ repositories.ChatQueryRepository       = (*MemoryStore)(nil)
	_ repositories.AnalyticsRepository       = (*MemoryStore)(nil)
	_ repositories.EmbeddingRepository       = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clock:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		itineraries: make(map[uuid.UUID]*dbm.Itinerary),
		travelers:   make(map[uuid.UUID]*dbm.Traveler),
		accounts:    make(map[uuid.UUID]*dbm.Account),
		embeddings:  make(map[uuid.UUID]*dbm.ItineraryEmbedding),
	}
}

func (m *MemoryStore) stamp(b *dbm.BaseModel) {
	m.clock++
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = m.clock
	}
	b.UpdatedAt = m.clock
}

func cloneItinerary(it *dbm.Itinerary) *dbm.Itinerary {
	cp := *it
	cp.Days = append([]dbm.DayEntry(nil), it.Days...)
	cp.TravelerIDs = append([]string(nil), it.TravelerIDs...)
	return &cp
}

func (m *MemoryStore) live(ownerID, itineraryID uuid.UUID) *dbm.Itinerary {
	it, ok := m.itineraries[itineraryID]
	if !ok || it.OwnerID != ownerID || it.DeletedAt.Valid {
		return nil
	}
	return it
}

func (m *MemoryStore) travelerCount(it *dbm.Itinerary) int64 {
	var n int64
	for _, t := range m.travelers {
		if t.ItineraryID == it.ID && t.OwnerID == it.OwnerID && it.HasTraveler(t.ID) {
			n++
		}
	}
	return n
}

func (m *MemoryStore) summaryRows(match func(*dbm.Itinerary) bool, limit int) []repositories.ItinerarySummaryRow {
	var rows []repositories.ItinerarySummaryRow
	for _, it := range m.itineraries {
		if it.DeletedAt.Valid || !match(it) {
			continue
		}
		rows = append(rows, repositories.ItinerarySummaryRow{Itinerary: *cloneItinerary(it), TravelerCount: m.travelerCount(it)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt > rows[j].CreatedAt })
	if limit <= 0 || limit > repositories.DefaultListLimit {
		limit = repositories.DefaultListLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Itineraries

func (m *MemoryStore) CreateItinerary(_ context.Context, itinerary *dbm.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.stamp(&itinerary.BaseModel)
	if itinerary.Status == "" {
		itinerary.Status = dbm.StatusDraft
	}
	m.itineraries[itinerary.ID] = cloneItinerary(itinerary)
	return nil
}

func (m *MemoryStore) FindOwnedItinerary(_ context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	it := m.live(ownerID, itineraryID)
	if it == nil {
		return nil, nil
	}
	return cloneItinerary(it), nil
}

func (m *MemoryStore) ListItinerarySummaries(_ context.Context, ownerID uuid.UUID, limit int) ([]repositories.ItinerarySummaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.summaryRows(func(it *dbm.Itinerary) bool { return it.OwnerID == ownerID }, limit), nil
}

func (m *MemoryStore) ListItinerarySummariesByIDs(_ context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]repositories.ItinerarySummaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	rows := make([]repositories.ItinerarySummaryRow, 0, len(ids))
	for _, id := range ids {
		if it := m.live(ownerID, id); it != nil {
			rows = append(rows, repositories.ItinerarySummaryRow{Itinerary: *cloneItinerary(it), TravelerCount: m.travelerCount(it)})
		}
	}
	return rows, nil
}

func (m *MemoryStore) SearchItinerarySummaries(_ context.Context, ownerID uuid.UUID, query string, limit int) ([]repositories.ItinerarySummaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	q := strings.ToLower(query)
	return m.summaryRows(func(it *dbm.Itinerary) bool {
		if it.OwnerID != ownerID {
			return false
		}
		return strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Destination), q) ||
			strings.Contains(strings.ToLower(it.Description), q)
	}, limit), nil
}

func (m *MemoryStore) UpdateItineraryStatus(_ context.Context, ownerID, itineraryID uuid.UUID, status dbm.ItineraryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	it := m.live(ownerID, itineraryID)
	if it == nil {
		return gorm.ErrRecordNotFound
	}
	it.Status = status
	m.stamp(&it.BaseModel)
	return nil
}

func (m *MemoryStore) SoftDeleteOwnedItinerary(_ context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	it := m.live(ownerID, itineraryID)
	if it == nil {
		return nil, nil
	}
	it.DeletedAt = gorm.DeletedAt{Time: time.UnixMilli(m.clock).UTC(), Valid: true}
	return cloneItinerary(it), nil
}

// Travelers

func (m *MemoryStore) CreateTravelerAndLink(_ context.Context, traveler *dbm.Traveler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	it := m.live(traveler.OwnerID, traveler.ItineraryID)
	if it == nil {
		return gorm.ErrRecordNotFound
	}
	if traveler.IsPrimary {
		for _, t := range m.travelers {
			if t.ItineraryID == traveler.ItineraryID {
				t.IsPrimary = false
			}
		}
	}
	m.stamp(&traveler.BaseModel)
	cp := *traveler
	m.travelers[cp.ID] = &cp
	it.TravelerIDs = append(it.TravelerIDs, cp.ID.String())
	return nil
}

func (m *MemoryStore) travelersWhere(match func(*dbm.Traveler) bool, newestFirst bool) []dbm.Traveler {
	out := []dbm.Traveler{}
	for _, t := range m.travelers {
		if match(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

func (m *MemoryStore) ListTravelersByItinerary(_ context.Context, ownerID, itineraryID uuid.UUID) ([]dbm.Traveler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.travelersWhere(func(t *dbm.Traveler) bool {
		return t.ItineraryID == itineraryID && t.OwnerID == ownerID
	}, true), nil
}

func (m *MemoryStore) ResolveTravelerReferences(_ context.Context, itinerary *dbm.Itinerary) ([]dbm.Traveler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.travelersWhere(func(t *dbm.Traveler) bool {
		return t.ItineraryID == itinerary.ID && t.OwnerID == itinerary.OwnerID && itinerary.HasTraveler(t.ID)
	}, false), nil
}

func (m *MemoryStore) DeleteTravelerAndUnlink(_ context.Context, ownerID, itineraryID, travelerID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	t, ok := m.travelers[travelerID]
	if !ok || t.ItineraryID != itineraryID || t.OwnerID != ownerID {
		return false, nil
	}
	delete(m.travelers, travelerID)
	if it, ok := m.itineraries[itineraryID]; ok && it.OwnerID == ownerID {
		ref := travelerID.String()
		kept := it.TravelerIDs[:0]
		for _, id := range it.TravelerIDs {
			if id != ref {
				kept = append(kept, id)
			}
		}
		it.TravelerIDs = kept
	}
	return true, nil
}

// Itinerary returns the stored record, including soft-deleted ones.
func (m *MemoryStore) Itinerary(id uuid.UUID) *dbm.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.itineraries[id]; ok {
		return cloneItinerary(it)
	}
	return nil
}

func (m *MemoryStore) TravelerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.travelers)
}

// Accounts

func (m *MemoryStore) InsertAccount(_ context.Context, account *dbm.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, a := range m.accounts {
		if a.Email == account.Email || a.Phone == account.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	m.stamp(&account.BaseModel)
	cp := *account
	m.accounts[cp.ID] = &cp
	return nil
}

func (m *MemoryStore) FindById(_ context.Context, id uuid.UUID) (*dbm.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryStore) FindByEmailOrPhone(_ context.Context, identifier string) (*dbm.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.accounts {
		if a.Email == identifier || a.Phone == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, a := range m.accounts {
		if a.Email == email || a.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = hash
	m.stamp(&a.BaseModel)
	return nil
}

// Audit rows

func (m *MemoryStore) CreateNotificationLog(_ context.Context, entry *dbm.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.stamp(&entry.BaseModel)
	m.NotificationLogs = append(m.NotificationLogs, *entry)
	return nil
}

func (m *MemoryStore) CreateChatQuery(_ context.Context, query *dbm.ChatQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.stamp(&query.BaseModel)
	m.ChatQueries = append(m.ChatQueries, *query)
	return nil
}

// Analytics

func (m *MemoryStore) CountItineraries(_ context.Context, ownerID uuid.UUID) (int64, error) {
	return m.countItineraries(ownerID, "")
}

func (m *MemoryStore) CountItinerariesByStatus(_ context.Context, ownerID uuid.UUID, status dbm.ItineraryStatus) (int64, error) {
	return m.countItineraries(ownerID, status)
}

func (m *MemoryStore) countItineraries(ownerID uuid.UUID, status dbm.ItineraryStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, it := range m.itineraries {
		if it.OwnerID == ownerID && !it.DeletedAt.Valid && (status == "" || it.Status == status) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountLiveTravelers(_ context.Context, ownerID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, t := range m.travelers {
		if t.OwnerID == ownerID && m.live(ownerID, t.ItineraryID) != nil {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountNotifications(_ context.Context, ownerID uuid.UUID, success bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, l := range m.NotificationLogs {
		if l.OwnerID == ownerID && l.Success == success {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountChatQueries(_ context.Context, ownerID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, q := range m.ChatQueries {
		if q.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// Embeddings

func (m *MemoryStore) UpsertItineraryEmbedding(_ context.Context, embedding *dbm.ItineraryEmbedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *embedding
	m.embeddings[cp.ItineraryID] = &cp
	return nil
}

func (m *MemoryStore) NearestItineraryIDs(_ context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	type scored struct {
		id  uuid.UUID
		sim float64
	}
	var hits []scored
	for _, e := range m.embeddings {
		if e.OwnerID != ownerID {
			continue
		}
		if sim := cosine(vector.Slice(), e.Embedding.Slice()); sim > repositories.MinSimilarity {
			hits = append(hits, scored{e.ItineraryID, sim})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].sim > hits[j].sim })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
