package teamrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "teams"

type TeamDocument struct {
	ID       string           `bson:"_id"`
	Name     string           `bson:"name"`
	LeaderID string           `bson:"leaderId"`
	Members  []MemberDocument `bson:"members"`
}

type MemberDocument struct {
	UserID string `bson:"userId"`
	Name   string `bson:"name"`
}

type sessionBinder interface {
	Bind(ctx context.Context) context.Context
}

// MongoTeamDirectory reads teams with their embedded member list.
type MongoTeamDirectory struct {
	collection *mongo.Collection
	session    sessionBinder
}

var _ ports.TeamDirectory = (*MongoTeamDirectory)(nil)

func NewMongoTeamDirectory(db *mongo.Database, session sessionBinder) *MongoTeamDirectory {
	return &MongoTeamDirectory{collection: db.Collection(CollectionName), session: session}
}

func (d *MongoTeamDirectory) GetTeam(ctx context.Context, teamID string) (*team.Team, error) {
	return d.findOne(ctx, "team", teamID, bson.M{"_id": teamID})
}

func (d *MongoTeamDirectory) GetTeamByLeader(ctx context.Context, leaderID string) (*team.Team, error) {
	return d.findOne(ctx, "team leader", leaderID, bson.M{"leaderId": leaderID})
}

// Save replaces a team document. The directory is maintained outside this service;
// Save is used to seed it.
func (d *MongoTeamDirectory) Save(ctx context.Context, t *team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	doc := TeamDocument{ID: t.ID(), Name: t.Name(), LeaderID: t.LeaderID(), Members: make([]MemberDocument, 0)}
	for _, m := range t.Members() {
		doc.Members = append(doc.Members, MemberDocument{UserID: m.UserID(), Name: m.Name()})
	}

	_, err := d.collection.ReplaceOne(d.session.Bind(ctx), bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (d *MongoTeamDirectory) findOne(ctx context.Context, param, id string, query bson.M) (*team.Team, error) {
	var doc TeamDocument
	if err := d.collection.FindOne(d.session.Bind(ctx), query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}

	members := make([]team.Member, 0, len(doc.Members))
	for _, m := range doc.Members {
		member, err := team.NewMember(m.UserID, m.Name)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return team.NewTeam(doc.ID, doc.Name, doc.LeaderID, members)
}
