package qdrant

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// keyPayload holds the caller's key; Qdrant point ids must be UUIDs or integers.
const keyPayload = "_key"

// pointNamespace seeds the UUIDv5 ids derived from record keys.
var pointNamespace = uuid.MustParse("6f1c2a52-93c5-4e0a-b7f4-2f0d9f1f4c11")

// PointID returns the deterministic point id for a record key.
func PointID(key string) string {
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// Upsert writes items as points; tags become keyword payload, numerics double payload.
func (s *Store) Upsert(ctx context.Context, index string, items []db.Item) error {
	if len(items) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(items))
	for i := range items {
		item := &items[i]
		payload := make(map[string]*pb.Value, len(item.Tags)+len(item.Numerics)+1)
		payload[keyPayload] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: item.Key}}
		for k, v := range item.Tags {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}
		for k, v := range item.Numerics {
			payload[k] = &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: v}}
		}
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(item.Key)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: item.Vector}}},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(s.withAuth(ctx), &pb.UpsertPoints{
		CollectionName: index,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return &db.Error{Op: db.OpUpsertPoints, Err: err}
	}
	return nil
}

// SearchKNN runs a filtered nearest-neighbour search. Qdrant reports Euclid distance
// as the score, which is converted to a similarity.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if !q.Filters.Satisfiable() {
		return &db.SearchResult{}, nil
	}

	// the key is always needed to map points back to records
	payload := &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Include{
		Include: &pb.PayloadIncludeSelector{Fields: []string{keyPayload}},
	}}
	if q.IncludeMetadata {
		payload = &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}}
	}

	resp, err := s.points.Search(s.withAuth(ctx), &pb.SearchPoints{
		CollectionName: q.IndexName,
		Vector:         q.Vector,
		Filter:         buildFilter(q.Filters),
		Limit:          uint64(q.K),
		WithPayload:    payload,
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpSearchPoints, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		fields := payloadToFields(pt.GetPayload())
		key := fields[keyPayload]
		if key == "" {
			key = pt.GetId().GetUuid()
		}
		delete(fields, keyPayload)
		if !q.IncludeMetadata {
			fields = nil
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  db.DistanceToScore(float64(pt.GetScore())),
			Fields: fields,
		})
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// buildFilter translates the expression into a Must list: keyword match-any for tag
// clauses, an inclusive range for numeric ones.
func buildFilter(expr filter.Expression) *pb.Filter {
	if expr.IsEmpty() {
		return nil
	}
	must := make([]*pb.Condition, 0, len(expr.Clauses()))
	for _, c := range expr.Clauses() {
		fc := &pb.FieldCondition{Key: c.Key()}
		if c.IsRange() {
			gte, lte := c.Range().GTE(), c.Range().LTE()
			fc.Range = &pb.Range{Gte: &gte, Lte: &lte}
		} else {
			fc.Match = &pb.Match{MatchValue: &pb.Match_Keywords{
				Keywords: &pb.RepeatedStrings{Strings: c.Values()},
			}}
		}
		must = append(must, &pb.Condition{ConditionOneOf: &pb.Condition_Field{Field: fc}})
	}
	return &pb.Filter{Must: must}
}

func payloadToFields(payload map[string]*pb.Value) map[string]string {
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		switch kind := v.GetKind().(type) {
		case *pb.Value_StringValue:
			out[k] = kind.StringValue
		case *pb.Value_DoubleValue:
			out[k] = strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64)
		case *pb.Value_IntegerValue:
			out[k] = strconv.FormatInt(kind.IntegerValue, 10)
		case *pb.Value_BoolValue:
			out[k] = strconv.FormatBool(kind.BoolValue)
		}
	}
	return out
}
