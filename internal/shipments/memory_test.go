package shipments

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// memState is an in-memory TxRepository. WithTx runs against a copy and only
// swaps it in when the callback succeeds, mirroring a rolled back transaction.
type memState struct {
	shipments map[int64]Shipment
	items     map[int64]Item
	importing map[int64]ImportingDetails
	customs   map[int64]Customs
	perType   map[int64]CustomsPerType
	audits    []shared.AuditLog
	nextID    int64

	suppliers map[int64]bool
	itemTypes map[int64]bool
}

func (s *memState) clone() *memState {
	c := *s
	c.shipments = make(map[int64]Shipment, len(s.shipments))
	for k, v := range s.shipments {
		c.shipments[k] = v
	}
	c.items = make(map[int64]Item, len(s.items))
	for k, v := range s.items {
		c.items[k] = v
	}
	c.importing = make(map[int64]ImportingDetails, len(s.importing))
	for k, v := range s.importing {
		c.importing[k] = v
	}
	c.customs = make(map[int64]Customs, len(s.customs))
	for k, v := range s.customs {
		c.customs[k] = v
	}
	c.perType = make(map[int64]CustomsPerType, len(s.perType))
	for k, v := range s.perType {
		c.perType[k] = v
	}
	c.audits = append([]shared.AuditLog(nil), s.audits...)
	return &c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

type memoryRepo struct {
	*memState
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{memState: &memState{
		shipments: map[int64]Shipment{},
		items:     map[int64]Item{},
		importing: map[int64]ImportingDetails{},
		customs:   map[int64]Customs{},
		perType:   map[int64]CustomsPerType{},
		suppliers: map[int64]bool{1: true, 2: true},
		itemTypes: map[int64]bool{10: true, 20: true},
	}}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := r.memState.clone()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.memState = tx
	return nil
}

func (r *memoryRepo) ListShipments(_ context.Context, filter ListFilter) ([]Shipment, int, error) {
	var out []Shipment
	for _, s := range r.shipments {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Name+" "+s.Number), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	offset := filter.Page.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filter.Page.Limit
	if filter.Page.Limit <= 0 || end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (s *memState) GetShipment(_ context.Context, id int64) (Shipment, error) {
	sh, ok := s.shipments[id]
	if !ok {
		return Shipment{}, ErrShipmentNotFound
	}
	return sh, nil
}

func (s *memState) LockShipment(ctx context.Context, id int64) (Shipment, error) {
	return s.GetShipment(ctx, id)
}

func (s *memState) CreateShipment(_ context.Context, sh Shipment) (Shipment, error) {
	for _, existing := range s.shipments {
		if existing.BackendMasterKey == sh.BackendMasterKey {
			return Shipment{}, ErrMasterKeyTaken
		}
	}
	sh.ID = s.id()
	sh.CreatedAt = time.Now()
	sh.UpdatedAt = sh.CreatedAt
	sh.UpdatedByID = sh.CreatedByID
	s.shipments[sh.ID] = sh
	return sh, nil
}

func (s *memState) UpdateShipment(_ context.Context, sh Shipment) (Shipment, error) {
	for _, existing := range s.shipments {
		if existing.ID != sh.ID && existing.BackendMasterKey == sh.BackendMasterKey {
			return Shipment{}, ErrMasterKeyTaken
		}
	}
	if _, ok := s.shipments[sh.ID]; !ok {
		return Shipment{}, ErrShipmentNotFound
	}
	sh.UpdatedAt = time.Now()
	s.shipments[sh.ID] = sh
	return sh, nil
}

func (s *memState) UpdateStatus(_ context.Context, id int64, status workflow.Status, actorID string) (Shipment, error) {
	sh, ok := s.shipments[id]
	if !ok {
		return Shipment{}, ErrShipmentNotFound
	}
	sh.Status = status
	sh.UpdatedByID = actorID
	s.shipments[id] = sh
	return sh, nil
}

func (s *memState) DeleteShipment(_ context.Context, id int64) error {
	if _, ok := s.shipments[id]; !ok {
		return ErrShipmentNotFound
	}
	delete(s.shipments, id)
	for k, it := range s.items {
		if it.ShipmentID == id {
			delete(s.items, k)
		}
	}
	delete(s.importing, id)
	for k, c := range s.customs {
		if c.ShipmentID != id {
			continue
		}
		for pk, p := range s.perType {
			if p.CustomsID == c.ID {
				delete(s.perType, pk)
			}
		}
		delete(s.customs, k)
	}
	return nil
}

func (s *memState) ListItems(_ context.Context, shipmentID int64) ([]Item, error) {
	var out []Item
	for _, it := range s.items {
		if it.ShipmentID == shipmentID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memState) checkRefs(it Item) error {
	if !s.suppliers[it.SupplierID] {
		return shared.FieldError("supplierId", "unknown supplier")
	}
	if !s.itemTypes[it.ItemTypeID] {
		return shared.FieldError("itemTypeId", "unknown item type")
	}
	return nil
}

func (s *memState) InsertItem(_ context.Context, it Item) (Item, error) {
	if err := s.checkRefs(it); err != nil {
		return Item{}, err
	}
	it.ID = s.id()
	s.items[it.ID] = it
	return it, nil
}

func (s *memState) UpdateItem(_ context.Context, it Item) (Item, error) {
	existing, ok := s.items[it.ID]
	if !ok || existing.ShipmentID != it.ShipmentID {
		return Item{}, shared.FieldError("id", "item does not belong to this shipment")
	}
	if err := s.checkRefs(it); err != nil {
		return Item{}, err
	}
	s.items[it.ID] = it
	return it, nil
}

func (s *memState) DeleteItem(_ context.Context, shipmentID, itemID int64) error {
	if it, ok := s.items[itemID]; ok && it.ShipmentID == shipmentID {
		delete(s.items, itemID)
	}
	return nil
}

func (s *memState) GetImporting(_ context.Context, shipmentID int64) (ImportingDetails, bool, error) {
	d, ok := s.importing[shipmentID]
	return d, ok, nil
}

func (s *memState) UpsertImporting(_ context.Context, d ImportingDetails) (ImportingDetails, error) {
	d.UpdatedAt = time.Now()
	s.importing[d.ShipmentID] = d
	return d, nil
}

func (s *memState) GetCustoms(_ context.Context, shipmentID int64) (Customs, bool, error) {
	for _, c := range s.customs {
		if c.ShipmentID == shipmentID {
			return c, true, nil
		}
	}
	return Customs{}, false, nil
}

func (s *memState) GetCustomsByID(_ context.Context, id int64) (Customs, error) {
	c, ok := s.customs[id]
	if !ok {
		return Customs{}, ErrCustomsNotFound
	}
	return c, nil
}

func (s *memState) CreateCustoms(_ context.Context, c Customs) (Customs, error) {
	c.ID = s.id()
	s.customs[c.ID] = c
	return c, nil
}

func (s *memState) UpdateCustoms(_ context.Context, c Customs) (Customs, error) {
	if _, ok := s.customs[c.ID]; !ok {
		return Customs{}, ErrCustomsNotFound
	}
	s.customs[c.ID] = c
	return c, nil
}

func (s *memState) ListPerType(_ context.Context, customsID int64) ([]CustomsPerType, error) {
	var out []CustomsPerType
	for _, p := range s.perType {
		if p.CustomsID == customsID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memState) GetPerType(_ context.Context, customsID, rowID int64) (CustomsPerType, error) {
	p, ok := s.perType[rowID]
	if !ok || p.CustomsID != customsID {
		return CustomsPerType{}, ErrPerTypeNotFound
	}
	return p, nil
}

func (s *memState) checkPerType(p CustomsPerType) error {
	if !s.itemTypes[p.ItemTypeID] {
		return shared.FieldError("itemTypeId", "unknown item type")
	}
	for _, existing := range s.perType {
		if existing.ID != p.ID && existing.CustomsID == p.CustomsID && existing.ItemTypeID == p.ItemTypeID {
			return ErrPerTypeExists
		}
	}
	return nil
}

func (s *memState) InsertPerType(_ context.Context, p CustomsPerType) (CustomsPerType, error) {
	if err := s.checkPerType(p); err != nil {
		return CustomsPerType{}, err
	}
	p.ID = s.id()
	s.perType[p.ID] = p
	return p, nil
}

func (s *memState) UpdatePerType(_ context.Context, p CustomsPerType) (CustomsPerType, error) {
	if _, ok := s.perType[p.ID]; !ok {
		return CustomsPerType{}, ErrPerTypeNotFound
	}
	if err := s.checkPerType(p); err != nil {
		return CustomsPerType{}, err
	}
	s.perType[p.ID] = p
	return p, nil
}

func (s *memState) DeletePerType(_ context.Context, customsID, rowID int64) error {
	p, ok := s.perType[rowID]
	if !ok || p.CustomsID != customsID {
		return ErrPerTypeNotFound
	}
	delete(s.perType, rowID)
	return nil
}

func (s *memState) RecordAudit(_ context.Context, log shared.AuditLog) error {
	s.audits = append(s.audits, log)
	return nil
}

type recordingMetrics struct {
	transitions []string
	seeded      int
}

func (m *recordingMetrics) RecordTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *recordingMetrics) RecordCustomsSeeded() {
	m.seeded++
}
