package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

const collectionExpertise = "expertise"

type ExpertiseRepository struct {
	col *mongo.Collection
}

func NewExpertiseRepository(db *mongo.Database) *ExpertiseRepository {
	return &ExpertiseRepository{col: db.Collection(collectionExpertise)}
}

type mongoExpertise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Icon        string             `bson:"icon"`
	LawyerCount int64              `bson:"lawyer_count"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (e mongoExpertise) toDomain() *domain.Expertise {
	return &domain.Expertise{
		ID:          e.ID.Hex(),
		Name:        e.Name,
		Description: e.Description,
		Icon:        e.Icon,
		LawyerCount: int(e.LawyerCount),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

// List returns all sectors sorted by name.
func (r *ExpertiseRepository) List(ctx context.Context) ([]*domain.Expertise, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoExpertise
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sectors: %w", err)
	}
	out := make([]*domain.Expertise, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ExpertiseRepository) FindByID(ctx context.Context, id string) (*domain.Expertise, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrSectorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoExpertise
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSectorNotFound
		}
		return nil, fmt.Errorf("find sector: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExpertiseRepository) FindByName(ctx context.Context, name string) (*domain.Expertise, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoExpertise
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSectorNotFound
		}
		return nil, fmt.Errorf("find sector: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExpertiseRepository) Create(ctx context.Context, e *domain.Expertise) (*domain.Expertise, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoExpertise{
		ID:          primitive.NewObjectID(),
		Name:        e.Name,
		Description: e.Description,
		Icon:        e.Icon,
		LawyerCount: int64(e.LawyerCount),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSector
		}
		return nil, fmt.Errorf("insert sector: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExpertiseRepository) Update(ctx context.Context, id string, in ports.ExpertiseInput) (*domain.Expertise, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrSectorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        in.Name,
		"description": in.Description,
		"icon":        in.Icon,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoExpertise
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrSectorNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateSector
		}
		return nil, fmt.Errorf("update sector: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExpertiseRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrSectorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSectorNotFound
	}
	return nil
}

// SetLawyerCount stores count on the sector named name. A missing sector is
// not an error: lawyers may list sectors that were never created.
func (r *ExpertiseRepository) SetLawyerCount(ctx context.Context, name string, count int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"lawyer_count": count}})
	if err != nil {
		return fmt.Errorf("set lawyer count: %w", err)
	}
	return nil
}
