package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/siteprov/siteprov/internal/inventory"
)

// uniqueKeys lists the fields forming each kind's uniqueness constraint.
var uniqueKeys = map[inventory.Kind][]string{
	inventory.KindSite:              {"slug"},
	inventory.KindManufacturer:      {"slug"},
	inventory.KindDeviceType:        {"manufacturer", "model"},
	inventory.KindInterfaceTemplate: {"device_type", "name"},
	inventory.KindDeviceRole:        {"slug"},
	inventory.KindDevice:            {"name"},
	inventory.KindInterface:         {"device", "name"},
	inventory.KindPrefix:            {"prefix"},
	inventory.KindIPAddress:         {"address"},
}

var keyFields = map[inventory.Kind]string{
	inventory.KindDeviceType: "model",
	inventory.KindPrefix:     "prefix",
	inventory.KindIPAddress:  "address",
}

// Update records one Update call.
type Update struct {
	Kind  inventory.Kind
	ID    int64
	Patch map[string]string
}

// FakeRepository is an in-memory inventory.Repository. Creating a device
// materializes its interfaces from the device type's templates.
type FakeRepository struct {
	mu      sync.Mutex
	nextID  int64
	objects map[inventory.Kind]map[int64]map[string]string
	creates map[inventory.Kind]int
	updates []Update

	// CreateErrors forces Create of a kind to fail with the given error.
	CreateErrors map[inventory.Kind]error
	// FailCreate decides per object whether Create fails (optional).
	FailCreate func(obj inventory.Object) error
	// FindErrors forces Find and List of a kind to fail.
	FindErrors map[inventory.Kind]error
	// HiddenFinds makes the next n Find calls of a kind report nothing,
	// simulating a concurrent writer between lookup and create.
	HiddenFinds map[inventory.Kind]int
}

// NewFakeRepository returns an empty fake repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		objects:      make(map[inventory.Kind]map[int64]map[string]string),
		creates:      make(map[inventory.Kind]int),
		CreateErrors: make(map[inventory.Kind]error),
		FindErrors:   make(map[inventory.Kind]error),
		HiddenFinds:  make(map[inventory.Kind]int),
	}
}

// Seed stores an object directly, bypassing uniqueness checks, and returns its ID.
func (r *FakeRepository) Seed(kind inventory.Kind, fields map[string]string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(kind, copyFields(fields))
}

// SeedObject stores obj as if it had been created earlier.
func (r *FakeRepository) SeedObject(obj inventory.Object) int64 {
	fields, err := flatten(obj)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.insert(obj.Kind(), fields)
	if obj.Kind() == inventory.KindDevice {
		r.materializeInterfaces(id, fields["device_type"])
	}
	return id
}

// Find implements inventory.Repository.
func (r *FakeRepository) Find(_ context.Context, kind inventory.Kind, filter inventory.Filter) (*inventory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FindErrors[kind]; err != nil {
		return nil, err
	}
	if r.HiddenFinds[kind] > 0 {
		r.HiddenFinds[kind]--
		return nil, nil
	}

	records := r.match(kind, filter)
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// List implements inventory.Repository.
func (r *FakeRepository) List(_ context.Context, kind inventory.Kind, filter inventory.Filter) ([]inventory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FindErrors[kind]; err != nil {
		return nil, err
	}
	return r.match(kind, filter), nil
}

// Create implements inventory.Repository.
func (r *FakeRepository) Create(_ context.Context, obj inventory.Object) inventory.CreateResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := obj.Kind()
	if err := r.CreateErrors[kind]; err != nil {
		return inventory.FailedResult(err)
	}
	if r.FailCreate != nil {
		if err := r.FailCreate(obj); err != nil {
			return inventory.FailedResult(err)
		}
	}

	fields, err := flatten(obj)
	if err != nil {
		return inventory.FailedResult(err)
	}
	if r.conflicts(kind, fields) {
		return inventory.DuplicateResult()
	}

	r.creates[kind]++
	id := r.insert(kind, fields)
	if kind == inventory.KindDevice {
		r.materializeInterfaces(id, fields["device_type"])
	}
	return inventory.CreatedResult(id)
}

// Update implements inventory.Repository.
func (r *FakeRepository) Update(_ context.Context, kind inventory.Kind, id int64, patch any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[kind][id]
	if !ok {
		return fmt.Errorf("%s %d not found", kind, id)
	}
	fields, err := flatten(patch)
	if err != nil {
		return err
	}
	for k, v := range fields {
		obj[k] = v
	}
	r.updates = append(r.updates, Update{Kind: kind, ID: id, Patch: fields})
	return nil
}

// CreateCount returns how many objects of kind were created through Create.
func (r *FakeRepository) CreateCount(kind inventory.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates[kind]
}

// Updates returns all recorded Update calls in order.
func (r *FakeRepository) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

// Get returns a copy of the stored fields of one object.
func (r *FakeRepository) Get(kind inventory.Kind, id int64) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[kind][id]
	if !ok {
		return nil, false
	}
	return copyFields(obj), true
}

// All returns copies of all stored objects of kind keyed by ID.
func (r *FakeRepository) All(kind inventory.Kind) map[int64]map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]map[string]string, len(r.objects[kind]))
	for id, obj := range r.objects[kind] {
		out[id] = copyFields(obj)
	}
	return out
}

func (r *FakeRepository) insert(kind inventory.Kind, fields map[string]string) int64 {
	r.nextID++
	if r.objects[kind] == nil {
		r.objects[kind] = make(map[int64]map[string]string)
	}
	r.objects[kind][r.nextID] = fields
	return r.nextID
}

func (r *FakeRepository) materializeInterfaces(deviceID int64, deviceType string) {
	for _, tmpl := range r.sorted(inventory.KindInterfaceTemplate) {
		fields := r.objects[inventory.KindInterfaceTemplate][tmpl]
		if fields["device_type"] != deviceType {
			continue
		}
		r.insert(inventory.KindInterface, map[string]string{
			"device": strconv.FormatInt(deviceID, 10),
			"name":   fields["name"],
			"type":   fields["type"],
		})
	}
}

func (r *FakeRepository) conflicts(kind inventory.Kind, fields map[string]string) bool {
	keys := uniqueKeys[kind]
	for _, obj := range r.objects[kind] {
		same := true
		for _, k := range keys {
			if obj[k] != fields[k] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func (r *FakeRepository) match(kind inventory.Kind, filter inventory.Filter) []inventory.Record {
	var out []inventory.Record
	for _, id := range r.sorted(kind) {
		obj := r.objects[kind][id]
		if !matches(obj, filter) {
			continue
		}
		out = append(out, record(kind, id, obj))
	}
	return out
}

func (r *FakeRepository) sorted(kind inventory.Kind) []int64 {
	ids := make([]int64, 0, len(r.objects[kind]))
	for id := range r.objects[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func matches(obj map[string]string, filter inventory.Filter) bool {
	for k, want := range filter {
		if k == "parent" {
			if !withinParent(obj["address"], want) {
				return false
			}
			continue
		}
		got, ok := obj[k]
		if !ok {
			got = obj[strings.TrimSuffix(k, "_id")]
		}
		if got != want {
			return false
		}
	}
	return true
}

func withinParent(address, parent string) bool {
	p, err := netip.ParsePrefix(parent)
	if err != nil {
		return false
	}
	a, err := netip.ParsePrefix(address)
	if err != nil {
		return false
	}
	return p.Contains(a.Addr())
}

func record(kind inventory.Kind, id int64, obj map[string]string) inventory.Record {
	field := keyFields[kind]
	if field == "" {
		field = "name"
	}
	return inventory.Record{ID: id, Key: obj[field], Slug: obj["slug"]}
}

func flatten(v any) (map[string]string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		switch tv := val.(type) {
		case string:
			out[k] = tv
		case float64:
			out[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out, nil
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
