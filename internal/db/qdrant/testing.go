package qdrant

import pb "github.com/qdrant/go-client/qdrant"

// NewStoreForTest creates a Store over the provided clients (test-only).
func NewStoreForTest(points pb.PointsClient, collections pb.CollectionsClient, service pb.QdrantClient) *Store {
	return &Store{points: points, collections: collections, service: service}
}
