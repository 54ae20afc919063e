package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workspace-access/internal/domain/access"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const grantsCollection = "access_grants"

// Connect abre el cliente y hace ping dentro de timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type AccessGrantsRepo struct {
	collection *mongo.Collection
}

func NewAccessGrantsRepo(db *mongo.Database) *AccessGrantsRepo {
	return &AccessGrantsRepo{collection: db.Collection(grantsCollection)}
}

var _ access.Repository = (*AccessGrantsRepo)(nil)

// EnsureIndexes crea el índice único parcial sobre la tupla (solo documentos activos)
// y los índices de consulta.
func (r *AccessGrantsRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "organizationId", Value: 1},
				{Key: "userId", Value: 1},
				{Key: "resourceType", Value: 1},
				{Key: "resourceId", Value: 1},
			},
			Options: options.Index().
				SetName("active_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "isActive", Value: true}}),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "resourceType", Value: 1},
				{Key: "resourceId", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "inheritedFromId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "expiresAt", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *AccessGrantsRepo) Create(ctx context.Context, g access.Grant) error {
	_, err := r.collection.InsertOne(ctx, toDocument(g))
	if mongo.IsDuplicateKeyError(err) {
		return access.ErrDuplicateActive
	}
	return err
}

// Update reemplaza el documento solo si la versión almacenada coincide.
func (r *AccessGrantsRepo) Update(ctx context.Context, g access.Grant) error {
	doc := toDocument(g)
	doc.Version = g.Version + 1

	res, err := r.collection.ReplaceOne(ctx, bson.D{
		{Key: "_id", Value: g.ID},
		{Key: "version", Value: g.Version},
	}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return access.ErrDuplicateActive
		}
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.D{{Key: "_id", Value: g.ID}})
	if err != nil {
		return err
	}
	if n == 0 {
		return access.ErrGrantNotFound
	}
	return access.ErrStaleVersion
}

func (r *AccessGrantsRepo) GetByID(ctx context.Context, id string) (access.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return access.Grant{}, access.ErrGrantNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *AccessGrantsRepo) GetActive(ctx context.Context, k access.Key) (access.Grant, error) {
	return r.findOne(ctx, bson.D{
		{Key: "organizationId", Value: k.OrganizationID},
		{Key: "userId", Value: k.UserID},
		{Key: "resourceType", Value: string(k.ResourceType)},
		{Key: "resourceId", Value: k.ResourceID},
		{Key: "isActive", Value: true},
	})
}

func (r *AccessGrantsRepo) findOne(ctx context.Context, filter bson.D) (access.Grant, error) {
	var doc grantDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return access.Grant{}, access.ErrGrantNotFound
	}
	if err != nil {
		return access.Grant{}, err
	}
	return doc.toGrant(), nil
}

func (r *AccessGrantsRepo) List(ctx context.Context, f access.ListFilter) ([]access.Grant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "grantedAt", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := r.collection.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []grantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]access.Grant, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toGrant())
	}
	return out, nil
}

func (r *AccessGrantsRepo) DeactivateExpired(ctx context.Context, organizationID string, now time.Time) (int64, error) {
	filter := bson.D{
		{Key: "isActive", Value: true},
		{Key: "expiresAt", Value: bson.D{{Key: "$ne", Value: nil}, {Key: "$lt", Value: now}}},
	}
	if organizationID != "" {
		filter = append(filter, bson.E{Key: "organizationId", Value: organizationID})
	}

	res, err := r.collection.UpdateMany(ctx, filter, bson.D{
		{Key: "$set", Value: bson.D{{Key: "isActive", Value: false}, {Key: "updatedAt", Value: now}}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// listFilter traduce el ListFilter a un filtro bson; campos vacíos no filtran.
func listFilter(f access.ListFilter) bson.D {
	filter := bson.D{}
	add := func(key, v string) {
		if v != "" {
			filter = append(filter, bson.E{Key: key, Value: v})
		}
	}
	add("organizationId", f.OrganizationID)
	add("userId", f.UserID)
	add("resourceType", string(f.ResourceType))
	add("resourceId", f.ResourceID)
	add("inheritedFrom", string(f.InheritedFrom))
	add("inheritedFromId", f.InheritedFromID)
	add("permission", string(f.Permission))
	if f.ActiveOnly {
		filter = append(filter, bson.E{Key: "isActive", Value: true})
	}
	return filter
}
