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

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

const invitationsCollection = "invitations"

// InvitationRepository implements ports.InvitationRepository on MongoDB.
// The unique index on code makes collisions deterministic failures, and
// Transition is a findOneAndUpdate compare-and-swap on the pending status.
type InvitationRepository struct {
	coll *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{coll: db.Collection(invitationsCollection)}
}

type mongoInvitation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Code        string             `bson:"code"`
	Email       string             `bson:"email"`
	Name        string             `bson:"name,omitempty"`
	Role        string             `bson:"role"`
	HouseholdID string             `bson:"household_id"`
	InvitedBy   string             `bson:"invited_by"`
	Status      string             `bson:"status"`
	ExpiresAt   time.Time          `bson:"expires_at"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoInvitation{
		Code:        inv.Code,
		Email:       inv.Email,
		Name:        inv.Name,
		Role:        string(inv.Role),
		HouseholdID: inv.HouseholdID,
		InvitedBy:   inv.InvitedBy,
		Status:      string(inv.Status),
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateCode
		}
		return nil, fmt.Errorf("insert invitation: %w", err)
	}

	created := *inv
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id string) (*domain.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvitationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoInvitation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *InvitationRepository) FindByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoInvitation
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation by code: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *InvitationRepository) ListByHousehold(ctx context.Context, householdID string) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"household_id": householdID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer cur.Close(ctx)

	var invitations []*domain.Invitation
	for cur.Next(ctx) {
		var mi mongoInvitation
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode invitation: %w", err)
		}
		invitations = append(invitations, mi.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// Transition atomically moves a pending invitation to a terminal status.
// The pending filter is part of the swap, so of two racing transitions
// exactly one matches; the loser gets ErrInviteNotPending.
func (r *InvitationRepository) Transition(ctx context.Context, id string, next domain.InvitationStatus) (*domain.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvitationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(domain.InviteStatusPending)}
	update := bson.M{"$set": bson.M{"status": string(next)}}

	var mi mongoInvitation
	err = r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mi)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Missing or already terminal; disambiguate with a read.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrInviteNotPending
		}
		return nil, fmt.Errorf("transition invitation: %w", err)
	}
	return mi.toDomain(), nil
}

// EnsureIndexes creates the unique code index and the household listing index.
func (r *InvitationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "household_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (mi *mongoInvitation) toDomain() *domain.Invitation {
	return &domain.Invitation{
		ID:          mi.ID.Hex(),
		Code:        mi.Code,
		Email:       mi.Email,
		Name:        mi.Name,
		Role:        domain.Role(mi.Role),
		HouseholdID: mi.HouseholdID,
		InvitedBy:   mi.InvitedBy,
		Status:      domain.InvitationStatus(mi.Status),
		ExpiresAt:   mi.ExpiresAt,
		CreatedAt:   mi.CreatedAt,
	}
}
