package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

// assetEntry holds one balance row together with its own lock, so the
// read-check-write sequence of Adjust serializes per key while disjoint
// keys proceed independently. The store-level mutex only guards the map.
type assetEntry struct {
	mu         sync.Mutex
	customerID int64
	assetName  string
	size       decimal.Decimal
	usableSize decimal.Decimal
}

func (e *assetEntry) snapshot() *models.Asset {
	return &models.Asset{
		CustomerID: e.customerID,
		AssetName:  e.assetName,
		Size:       e.size,
		UsableSize: e.usableSize,
	}
}

type AssetStore struct {
	mu      sync.RWMutex
	entries map[string]*assetEntry
}

var _ repository.BalanceStore = (*AssetStore)(nil)

func NewAssetStore() *AssetStore {
	return &AssetStore{entries: make(map[string]*assetEntry)}
}

func key(customerID int64, assetName string) string {
	return assetName + ":" + strconv.FormatInt(customerID, 10)
}

func (s *AssetStore) lookup(customerID int64, assetName string) (*assetEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key(customerID, assetName)]
	return e, ok
}

func (s *AssetStore) Get(_ context.Context, customerID int64, assetName string) (*models.Asset, error) {
	e, ok := s.lookup(customerID, assetName)
	if !ok {
		return nil, fmt.Errorf("asset %s for customer %d: %w", assetName, customerID, models.ErrAssetNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

func (s *AssetStore) ListByCustomer(_ context.Context, customerID int64) ([]models.Asset, error) {
	return s.collect(customerID, func(string) bool { return true }), nil
}

func (s *AssetStore) SearchByName(_ context.Context, customerID int64, assetName string) ([]models.Asset, error) {
	needle := strings.ToLower(assetName)
	return s.collect(customerID, func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	}), nil
}

func (s *AssetStore) collect(customerID int64, match func(assetName string) bool) []models.Asset {
	s.mu.RLock()
	var entries []*assetEntry
	for _, e := range s.entries {
		if e.customerID == customerID && match(e.assetName) {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	var assets []models.Asset
	for _, e := range entries {
		e.mu.Lock()
		assets = append(assets, *e.snapshot())
		e.mu.Unlock()
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetName < assets[j].AssetName })
	return assets
}

func (s *AssetStore) CreateIfAbsent(_ context.Context, customerID int64, assetName string, size, usableSize decimal.Decimal) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key(customerID, assetName)]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.snapshot(), nil
	}
	e := &assetEntry{
		customerID: customerID,
		assetName:  assetName,
		size:       size,
		usableSize: usableSize,
	}
	s.entries[key(customerID, assetName)] = e
	return e.snapshot(), nil
}

// Adjust performs the read-check-write as one step under the entry lock.
// A rejected adjustment leaves the row untouched.
func (s *AssetStore) Adjust(_ context.Context, customerID int64, assetName string, deltaSize, deltaUsable decimal.Decimal) (*models.Asset, error) {
	e, ok := s.lookup(customerID, assetName)
	if !ok {
		return nil, fmt.Errorf("asset %s for customer %d: %w", assetName, customerID, models.ErrAssetNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	newSize := e.size.Add(deltaSize)
	newUsable := e.usableSize.Add(deltaUsable)
	if newSize.IsNegative() || newUsable.IsNegative() || newUsable.GreaterThan(newSize) {
		return nil, fmt.Errorf("adjust of asset %s for customer %d rejected: %w", assetName, customerID, models.ErrInsufficientFunds)
	}

	e.size = newSize
	e.usableSize = newUsable
	return e.snapshot(), nil
}
