package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/san-kum/seesaw/internal/beam"
)

// State persists a session record under the fixed Key. None of its methods
// fail: a broken store behaves like an empty one, and the in-memory session
// stays authoritative.
type State struct {
	kv     KV
	params beam.Params
	log    *zap.Logger
}

func NewState(kv KV, params beam.Params, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{kv: kv, params: params, log: log}
}

func (s *State) Load(ctx context.Context) (Record, bool) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Debug("state load failed", zap.Error(err))
		}
		return Record{}, false
	}
	rec, ok := Decode(data, s.params)
	if !ok {
		s.log.Debug("discarding malformed state", zap.Int("bytes", len(data)))
	}
	return rec, ok
}

func (s *State) Save(ctx context.Context, rec Record) {
	out := Record{
		Placed:     rec.Placed,
		Logs:       capLogs(rec.Logs, s.params.LogLimit),
		NextWeight: rec.NextWeight,
	}
	if out.Placed == nil {
		out.Placed = []beam.Item{}
	}
	if out.Logs == nil {
		out.Logs = []string{}
	}

	data, err := json.Marshal(out)
	if err != nil {
		s.log.Debug("state encode failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		s.log.Debug("state save failed", zap.Error(err))
	}
}

func (s *State) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, Key); err != nil {
		s.log.Debug("state clear failed", zap.Error(err))
	}
}
