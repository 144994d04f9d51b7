package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

const collectionLawyers = "lawyers"

type LawyerRepository struct {
	col *mongo.Collection
}

func NewLawyerRepository(db *mongo.Database) *LawyerRepository {
	return &LawyerRepository{col: db.Collection(collectionLawyers)}
}

type mongoLawyer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone"`
	Bio        string             `bson:"bio"`
	Avatar     string             `bson:"avatar"`
	Sectors    []string           `bson:"sectors"`
	Experience int                `bson:"experience"`
	Rating     float64            `bson:"rating"`
	Available  bool               `bson:"available"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (l mongoLawyer) toDomain() *domain.Lawyer {
	sectors := l.Sectors
	if sectors == nil {
		sectors = []string{}
	}
	return &domain.Lawyer{
		ID:         l.ID.Hex(),
		UserID:     l.UserID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Bio:        l.Bio,
		Avatar:     l.Avatar,
		Sectors:    sectors,
		Experience: l.Experience,
		Rating:     l.Rating,
		Available:  l.Available,
		CreatedAt:  l.CreatedAt.UTC(),
		UpdatedAt:  l.UpdatedAt.UTC(),
	}
}

// List returns lawyers matching filter, best rated first. Search is matched
// as a literal, case-insensitive substring of the name.
func (r *LawyerRepository) List(ctx context.Context, f ports.LawyerFilter) ([]*domain.Lawyer, error) {
	filter := bson.M{}
	if f.Sector != "" {
		filter["sectors"] = f.Sector
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *LawyerRepository) FindByID(ctx context.Context, id string) (*domain.Lawyer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrLawyerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoLawyer
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLawyerNotFound
		}
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs returns the lawyers among ids that exist. Malformed ids are skipped.
func (r *LawyerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Lawyer, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Lawyer{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *LawyerRepository) UpdateSectors(ctx context.Context, id string, sectors []string) (*domain.Lawyer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrLawyerNotFound
	}
	if sectors == nil {
		sectors = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"sectors": sectors, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoLawyer
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLawyerNotFound
		}
		return nil, fmt.Errorf("update sectors: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LawyerRepository) CountBySector(ctx context.Context, sector string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"sectors": sector})
	if err != nil {
		return 0, fmt.Errorf("count lawyers: %w", err)
	}
	return n, nil
}

// RenameSector swaps from for to in every profile listing from. $addToSet
// runs first so a profile that already lists to keeps a single entry.
func (r *LawyerRepository) RenameSector(ctx context.Context, from, to string) (int64, error) {
	if from == to {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"sectors": from}
	now := time.Now().UTC()
	if _, err := r.col.UpdateMany(ctx, filter, bson.M{
		"$addToSet": bson.M{"sectors": to},
		"$set":      bson.M{"updated_at": now},
	}); err != nil {
		return 0, fmt.Errorf("rename sector: %w", err)
	}
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$pull": bson.M{"sectors": from}})
	if err != nil {
		return 0, fmt.Errorf("rename sector: %w", err)
	}
	return res.ModifiedCount, nil
}

// Insert stores a lawyer profile. Profiles are provisioned out of band; this
// is used by seeding and tests.
func (r *LawyerRepository) Insert(ctx context.Context, l *domain.Lawyer) (*domain.Lawyer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoLawyer{
		ID:         primitive.NewObjectID(),
		UserID:     l.UserID,
		Name:       l.Name,
		Email:      domain.NormalizeEmail(l.Email),
		Phone:      l.Phone,
		Bio:        l.Bio,
		Avatar:     l.Avatar,
		Sectors:    l.Sectors,
		Experience: l.Experience,
		Rating:     l.Rating,
		Available:  l.Available,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert lawyer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LawyerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Lawyer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := r.col.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find lawyers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoLawyer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lawyers: %w", err)
	}
	out := make([]*domain.Lawyer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
