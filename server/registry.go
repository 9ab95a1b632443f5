package server

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/acesso-etec/biometric/cpf"
	"github.com/acesso-etec/biometric/protocol"
)

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrUnitNotFound   = errors.New("unit not found")
	ErrDuplicate      = errors.New("a biometric is already enrolled for this finger")
	ErrNotEnrolled    = errors.New("no biometric enrolled for this finger")
)

type key struct {
	cpf    string
	finger protocol.Finger
}

type record struct {
	biometric protocol.Biometric
	template  []byte
}

// Registry keeps enrolled templates in memory. With no people or units
// configured, any CPF or unit code is accepted.
type Registry struct {
	mu      sync.Mutex
	open    bool
	people  map[string]int
	units   map[string]bool
	records map[key]*record
	nextID  int
	now     func() time.Time
}

func NewRegistry(people, units []string) *Registry {
	r := &Registry{
		people:  make(map[string]int),
		units:   make(map[string]bool),
		records: make(map[key]*record),
		nextID:  1,
		now:     time.Now,
		open:    len(people) == 0,
	}
	for i, p := range people {
		r.people[normalize(p)] = i + 1
	}
	for _, u := range units {
		r.units[u] = true
	}
	return r
}

// Add stores template for the person and finger.
func (r *Registry) Add(cpfNumber string, finger protocol.Finger, unitCode string, template []byte) (protocol.Biometric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := normalize(cpfNumber)
	personID, err := r.person(id)
	if err != nil {
		return protocol.Biometric{}, err
	}
	if len(r.units) > 0 && !r.units[unitCode] {
		return protocol.Biometric{}, ErrUnitNotFound
	}

	k := key{id, finger}
	if _, ok := r.records[k]; ok {
		return protocol.Biometric{}, ErrDuplicate
	}

	rec := &record{
		biometric: protocol.Biometric{
			ID:        r.nextID,
			PersonID:  personID,
			Finger:    finger,
			CreatedAt: r.now().UTC(),
		},
		template: template,
	}
	r.nextID++
	r.records[k] = rec
	return rec.biometric, nil
}

func (r *Registry) Remove(cpfNumber string, finger protocol.Finger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{normalize(cpfNumber), finger}
	if _, ok := r.records[k]; !ok {
		return ErrNotEnrolled
	}
	delete(r.records, k)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// person must be called with mu held.
func (r *Registry) person(id string) (int, error) {
	if personID, ok := r.people[id]; ok {
		return personID, nil
	}
	if !r.open {
		return 0, ErrPersonNotFound
	}
	personID := len(r.people) + 1
	r.people[id] = personID
	return personID, nil
}

func normalize(cpfNumber string) string {
	digits := cpf.Digits(cpfNumber)
	b := make([]byte, len(digits))
	for i, d := range digits {
		b[i] = byte('0' + d)
	}
	return string(b)
}

// lookup returns the stored record and decoded template.
func (r *Registry) lookup(cpfNumber string, finger protocol.Finger) (protocol.Biometric, []byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key{normalize(cpfNumber), finger}]
	if !ok {
		return protocol.Biometric{}, nil, false
	}
	return rec.biometric, rec.template, true
}
