package qdrant

import (
	"context"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/storefront/internal/db"
)

// EnsureIndex creates the collection with payload indexes for every filter field
// unless the collection already exists.
func (s *Store) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	ctx = s.withAuth(ctx)

	resp, err := s.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: def.Name})
	if err != nil {
		return &db.Error{Op: db.OpCollectionExists, Err: err}
	}
	if resp.GetResult().GetExists() {
		return nil
	}

	vf, _ := def.VectorField()
	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{Params: &pb.VectorParams{
			Size:     uint64(vf.VectorDim),
			Distance: distance(vf.VectorDistance),
		}}},
	})
	if err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}

	wait := true
	for _, f := range def.FilterFields() {
		ft := pb.FieldType_FieldTypeKeyword
		if f.Type == db.IndexFieldNumeric {
			ft = pb.FieldType_FieldTypeFloat
		}
		_, err := s.points.CreateFieldIndex(ctx, &pb.CreateFieldIndexCollection{
			CollectionName: def.Name,
			FieldName:      f.Name,
			FieldType:      ft.Enum(),
			Wait:           &wait,
		})
		if err != nil {
			return &db.Error{Op: db.OpCreateFieldIndex, Err: err}
		}
	}
	return nil
}

func distance(m db.DistanceMetric) pb.Distance {
	if m == db.DistanceCosine {
		return pb.Distance_Cosine
	}
	return pb.Distance_Euclid
}
