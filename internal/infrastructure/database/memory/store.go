// Package memory provides in-memory implementations of the protocol
// repositories. This is the default backend when PostgreSQL is not enabled,
// suitable for single-node deployments and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ProtocolStore is a thread-safe in-memory protocol.Repository.
type ProtocolStore struct {
	mu        sync.RWMutex
	protocols map[ptypes.ProtocolID]*protocol.Protocol
}

// NewProtocolStore creates an empty store.
func NewProtocolStore() *ProtocolStore {
	return &ProtocolStore{protocols: make(map[ptypes.ProtocolID]*protocol.Protocol)}
}

func (s *ProtocolStore) Save(_ context.Context, p *protocol.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocols[p.ID] = clone(p)
	return nil
}

func (s *ProtocolStore) FindByID(_ context.Context, id ptypes.ProtocolID) (*protocol.Protocol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.protocols[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeProtocolNotFound, "protocol not found: "+string(id))
	}
	return clone(p), nil
}

func (s *ProtocolStore) List(_ context.Context, filter protocol.ListFilter) ([]*protocol.Protocol, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*protocol.Protocol, 0, len(s.protocols))
	for _, p := range s.protocols {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*protocol.Protocol{}, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]*protocol.Protocol, 0, len(matched))
	for _, p := range matched {
		out = append(out, clone(p))
	}
	return out, total, nil
}

func (s *ProtocolStore) Delete(_ context.Context, id ptypes.ProtocolID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.protocols[id]; !ok {
		return errors.New(errors.ErrCodeProtocolNotFound, "protocol not found: "+string(id))
	}
	delete(s.protocols, id)
	return nil
}

func clone(p *protocol.Protocol) *protocol.Protocol {
	cp := *p
	if p.Sections != nil {
		cp.Sections = make(map[string]string, len(p.Sections))
		for k, v := range p.Sections {
			cp.Sections[k] = v
		}
	}
	return &cp
}

// AnalysisStore is a thread-safe in-memory protocol.AnalysisRepository.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[ptypes.ProtocolID][]*protocol.Analysis
}

// NewAnalysisStore creates an empty analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{analyses: make(map[ptypes.ProtocolID][]*protocol.Analysis)}
}

func (s *AnalysisStore) Save(_ context.Context, a *protocol.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.analyses[a.ProtocolID] = append(s.analyses[a.ProtocolID], &cp)
	return nil
}

func (s *AnalysisStore) ListByProtocol(_ context.Context, id ptypes.ProtocolID) ([]*protocol.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.analyses[id]
	out := make([]*protocol.Analysis, 0, len(records))
	for _, a := range records {
		cp := *a
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *AnalysisStore) FindLatest(_ context.Context, id ptypes.ProtocolID, typ ptypes.AnalysisType) (*protocol.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *protocol.Analysis
	for _, a := range s.analyses[id] {
		if a.Type != typ {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "no analysis of type "+string(typ)+" for protocol "+string(id))
	}
	cp := *latest
	return &cp, nil
}

// DeleteByProtocol removes all analyses for a protocol. Called when the
// protocol itself is deleted.
func (s *AnalysisStore) DeleteByProtocol(_ context.Context, id ptypes.ProtocolID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses, id)
	return nil
}
