package upstash

import (
	"context"
	"fmt"

	vector "github.com/upstash/vector-go"

	"github.com/kailas-cloud/storefront/internal/db"
)

func (s *Store) info(ctx context.Context) (vector.IndexInfo, error) {
	info, err := call(ctx, s.index.Info)
	if err != nil {
		return info, &db.Error{Op: db.OpInfo, Err: err}
	}
	return info, nil
}

// EnsureIndex cannot create hosted indexes; it checks that the existing one
// has the dimension def expects.
func (s *Store) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	info, err := s.info(ctx)
	if err != nil {
		return err
	}
	vf, ok := def.VectorField()
	if !ok {
		return nil
	}
	if info.Dimension != vf.VectorDim {
		return fmt.Errorf("%w: index has %d, want %d", db.ErrDimMismatch, info.Dimension, vf.VectorDim)
	}
	return nil
}
