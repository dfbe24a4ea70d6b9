/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/wql"
)

type cursor struct {
	lock    sync.Mutex
	store   StoreHandle
	records []Record
	total   int
	counted bool
	pos     int
}

// Searches is a table of snapshot searches for backends that materialize results when a search opens.
// The zero value is ready to use.
type Searches struct {
	lock    sync.RWMutex
	next    int32
	cursors map[SearchHandle]*cursor
	byStore map[StoreHandle]map[SearchHandle]struct{}
}

// Open registers a search over recs owned by store. Records are returned in (type, id) order.
func (s *Searches) Open(store StoreHandle, recs []Record, opts SearchOptions) SearchHandle {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Type != recs[j].Type {
			return recs[i].Type < recs[j].Type
		}

		return recs[i].ID < recs[j].ID
	})

	c := &cursor{store: store, total: len(recs), counted: opts.RetrieveTotalCount}
	if opts.RetrieveRecords {
		c.records = recs
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.cursors == nil {
		s.cursors = make(map[SearchHandle]*cursor)
		s.byStore = make(map[StoreHandle]map[SearchHandle]struct{})
	}

	s.next++
	h := SearchHandle(s.next)
	s.cursors[h] = c

	if s.byStore[store] == nil {
		s.byStore[store] = make(map[SearchHandle]struct{})
	}

	s.byStore[store][h] = struct{}{}

	return h
}

func (s *Searches) get(h SearchHandle) (*cursor, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	c, ok := s.cursors[h]
	if !ok {
		return nil, fmt.Errorf("search %d: %w", h, ErrInvalidHandle)
	}

	return c, nil
}

// Next returns the next record of search h.
func (s *Searches) Next(h SearchHandle) (*Record, bool, error) {
	c, err := s.get(h)
	if err != nil {
		return nil, false, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.pos >= len(c.records) {
		return nil, false, nil
	}

	rec := c.records[c.pos]
	c.pos++

	return &rec, true, nil
}

// Count returns the number of matches of search h if it was opened with RetrieveTotalCount.
func (s *Searches) Count(h SearchHandle) (int, error) {
	c, err := s.get(h)
	if err != nil {
		return 0, err
	}

	if !c.counted {
		return 0, ErrCountUnsupported
	}

	return c.total, nil
}

// Close releases search h.
func (s *Searches) Close(h SearchHandle) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.cursors[h]
	if !ok {
		return fmt.Errorf("close search %d: %w", h, ErrInvalidHandle)
	}

	delete(s.cursors, h)
	delete(s.byStore[c.store], h)

	return nil
}

// CloseStore releases every search owned by store.
func (s *Searches) CloseStore(store StoreHandle) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for h := range s.byStore[store] {
		delete(s.cursors, h)
	}

	delete(s.byStore, store)
}

// Filter returns the records of typ whose tags match the WQL query. It reuses the backing array of recs.
func Filter(recs []Record, typ, query string) ([]Record, error) {
	q, err := wql.Parse(query)
	if err != nil {
		return nil, err
	}

	out := recs[:0]

	for _, rec := range recs {
		if rec.Type == typ && q.Match(rec.Tags) {
			out = append(out, rec)
		}
	}

	return out, nil
}
