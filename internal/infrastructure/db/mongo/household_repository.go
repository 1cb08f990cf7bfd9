package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

const householdsCollection = "households"

// HouseholdRepository implements ports.HouseholdRepository on MongoDB.
type HouseholdRepository struct {
	coll *mongo.Collection
}

func NewHouseholdRepository(db *mongo.Database) *HouseholdRepository {
	return &HouseholdRepository{coll: db.Collection(householdsCollection)}
}

type mongoHousehold struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Members     []string           `bson:"members"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *HouseholdRepository) Create(ctx context.Context, h *domain.Household) (*domain.Household, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoHousehold{
		Name:        h.Name,
		Description: h.Description,
		OwnerID:     h.OwnerID,
		Members:     h.Members,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}

	created := *h
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *HouseholdRepository) FindByID(ctx context.Context, id string) (*domain.Household, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrHouseholdNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mh mongoHousehold
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mh); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("find household: %w", err)
	}
	return mh.toDomain(), nil
}

// AddMember appends the user with $addToSet guarded by a not-already-member
// filter, so two racing adds cannot both match: the loser sees no matched
// document and fails with ErrAlreadyMember.
func (r *HouseholdRepository) AddMember(ctx context.Context, householdID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(householdID)
	if err != nil {
		return domain.ErrHouseholdNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "members": bson.M{"$ne": userID}}
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the household is gone or the user is already a member;
		// disambiguate with a read.
		if _, findErr := r.FindByID(ctx, householdID); findErr != nil {
			return findErr
		}
		return domain.ErrAlreadyMember
	}
	return nil
}

func (r *HouseholdRepository) RemoveMember(ctx context.Context, householdID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(householdID)
	if err != nil {
		return domain.ErrHouseholdNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrHouseholdNotFound
	}
	return nil
}

func (r *HouseholdRepository) SetOwner(ctx context.Context, householdID, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(householdID)
	if err != nil {
		return domain.ErrHouseholdNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"owner_id": ownerID, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrHouseholdNotFound
	}
	return nil
}

// EnsureIndexes creates the member-lookup index.
func (r *HouseholdRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	return err
}

func (mh *mongoHousehold) toDomain() *domain.Household {
	return &domain.Household{
		ID:          mh.ID.Hex(),
		Name:        mh.Name,
		Description: mh.Description,
		OwnerID:     mh.OwnerID,
		Members:     mh.Members,
		CreatedAt:   mh.CreatedAt,
		UpdatedAt:   mh.UpdatedAt,
	}
}
