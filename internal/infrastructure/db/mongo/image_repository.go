package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

type ImageRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewImageRepository(db *mongo.Database, collection string, timeout time.Duration) *ImageRepository {
	return &ImageRepository{col: db.Collection(collection), timeout: timeout}
}

type mongoImage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Src      string             `bson:"src"`
	AuthorID string             `bson:"authorId"`
}

func (m mongoImage) toDomain() domain.Image {
	return domain.Image{
		ID:       m.ID.Hex(),
		Name:     m.Name,
		Src:      m.Src,
		AuthorID: m.AuthorID,
	}
}

// imageFilterToBSON translates the typed filter into a query document. The
// name pattern is matched literally, case-insensitive and unanchored.
func imageFilterToBSON(f ports.ImageFilter) bson.M {
	query := bson.M{}
	if f.Author != "" {
		query["authorId"] = f.Author
	}
	if f.NamePattern != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.NamePattern), Options: "i"}
	}
	return query
}

// imageUpdateToBSON returns the $set document for u, or nil when u is empty.
func imageUpdateToBSON(u ports.ImageUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if len(set) == 0 {
		return nil
	}
	return bson.M{"$set": set}
}

func (r *ImageRepository) Find(ctx context.Context, filter ports.ImageFilter) ([]domain.Image, error) {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, imageFilterToBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoImage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}

	images := make([]domain.Image, 0, len(docs))
	for _, d := range docs {
		images = append(images, d.toDomain())
	}
	return images, nil
}

// Update applies u to the image with the given hex id. It reports true only
// when a document was modified; an id that is not a valid ObjectID matches
// nothing.
func (r *ImageRepository) Update(ctx context.Context, id string, u ports.ImageUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	update := imageUpdateToBSON(u)
	if update == nil {
		return false, nil
	}

	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, fmt.Errorf("update image: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) (string, error) {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoImage{Name: img.Name, Src: img.Src, AuthorID: img.AuthorID}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert image: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert image: unexpected id type %T", res.InsertedID)
	}
	img.ID = oid.Hex()
	return img.ID, nil
}

// EnsureIndexes creates the lookup indexes on the images collection.
func (r *ImageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
