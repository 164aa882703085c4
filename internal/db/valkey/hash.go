package valkey

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/storefront/internal/db"
)

// vectorField is the hash field holding the FLOAT32 blob.
const vectorField = "__vector"

// Upsert stores items as hashes in a single DoMulti round-trip.
// HSET overwrites existing fields, so re-seeding is idempotent.
func (s *Store) Upsert(ctx context.Context, index string, items []db.Item) error {
	if len(items) == 0 {
		return nil
	}

	prefix := s.keyPrefix(index)
	cmds := make([]rueidis.Completed, len(items))
	for i := range items {
		item := &items[i]
		cmd := s.b().Hset().Key(prefix + item.Key).FieldValue()
		for k, v := range item.Tags {
			cmd = cmd.FieldValue(k, v)
		}
		for k, v := range item.Numerics {
			cmd = cmd.FieldValue(k, strconv.FormatFloat(v, 'f', -1, 64))
		}
		cmd = cmd.FieldValue(vectorField, vectorToBytes(item.Vector))
		cmds[i] = cmd.Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", items[i].Key, err)}
		}
	}
	return nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
