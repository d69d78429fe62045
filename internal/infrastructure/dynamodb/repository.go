package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
)

type Client struct {
	db        *awsv2dynamodb.Client
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	client := awsv2dynamodb.NewFromConfig(cfg)
	return &Client{db: client, tableName: tableName}, nil
}

func userPK(userID string) string       { return "USER#" + userID }
func emailPK(email string) string       { return "EMAIL#" + email }
func sessionPK(sessionID string) string { return "SESSION#" + sessionID }
func metaSK() string                    { return "META" }

type UserRepository struct{ client *Client }

type SessionRepository struct{ client *Client }

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func NewSessionRepository(client *Client) *SessionRepository {
	return &SessionRepository{client: client}
}

type userItem struct {
	ID           string `dynamodbav:"ID"`
	Email        string `dynamodbav:"Email"`
	Name         string `dynamodbav:"Name"`
	ImageID      string `dynamodbav:"ImageID"`
	PasswordHash string `dynamodbav:"PasswordHash"`
}

func (i userItem) toDomain() domain.User {
	return domain.User{ID: i.ID, Email: i.Email, Name: i.Name, ImageID: i.ImageID}
}

func (r *UserRepository) getItem(ctx context.Context, segment, pk string) (*awsv2dynamodb.GetItemOutput, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: pk},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	return out, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	out, err := r.getItem(ctx, "DynamoDB.GetUser", userPK(id))
	if err != nil {
		return domain.User{}, err
	}
	if out.Item == nil {
		return domain.User{}, domain.ErrNotFound
	}
	raw := userItem{}
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.User{}, err
	}
	return raw.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	out, err := r.getItem(ctx, "DynamoDB.GetUserByEmail", emailPK(email))
	if err != nil {
		return domain.User{}, err
	}
	if out.Item == nil {
		return domain.User{}, domain.ErrNotFound
	}
	raw := struct {
		UserID string `dynamodbav:"UserID"`
	}{}
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.User{}, err
	}
	return r.FindByID(ctx, raw.UserID)
}

// Upsert keeps a user stable across logins: the email pointer item decides
// whether the record exists, and an existing record keeps its original id.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User, passwordHash string) (domain.User, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		user.ID = existing.ID
		if user.Name == "" {
			user.Name = existing.Name
		}
		if user.ImageID == "" {
			user.ImageID = existing.ImageID
		}
	case errors.Is(err, domain.ErrNotFound):
		pointer := map[string]any{
			"PK":         emailPK(user.Email),
			"SK":         metaSK(),
			"EntityType": "USER_EMAIL",
			"UserID":     user.ID,
		}
		av, merr := attributevalue.MarshalMap(pointer)
		if merr != nil {
			return domain.User{}, merr
		}
		err = xray.Capture(ctx, "DynamoDB.PutUserEmail", func(ctx context.Context) error {
			_, e := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
				TableName: aws.String(r.client.tableName),
				Item:      av,
			})
			return e
		})
		if err != nil {
			return domain.User{}, err
		}
	default:
		return domain.User{}, err
	}

	item := map[string]any{
		"PK":           userPK(user.ID),
		"SK":           metaSK(),
		"EntityType":   "USER",
		"ID":           user.ID,
		"Email":        user.Email,
		"Name":         user.Name,
		"ImageID":      user.ImageID,
		"PasswordHash": passwordHash,
		"UpdatedAt":    time.Now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return domain.User{}, err
	}
	err = xray.Capture(ctx, "DynamoDB.PutUser", func(ctx context.Context) error {
		_, e := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName: aws.String(r.client.tableName),
			Item:      av,
		})
		return e
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	item := map[string]any{
		"PK":             sessionPK(session.ID),
		"SK":             metaSK(),
		"EntityType":     "SESSION",
		"ID":             session.ID,
		"UserID":         session.UserID,
		"AccessToken":    session.AccessToken,
		"ExpirationDate": session.ExpirationDate.Format(time.RFC3339),
		"CreatedAt":      session.CreatedAt.Format(time.RFC3339),
		// TTL attribute so DynamoDB reaps expired sessions on its own.
		"ExpiresAt": session.ExpirationDate.Unix(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutSession", func(ctx context.Context) error {
		_, err = r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		return err
	})
}

func (r *SessionRepository) FindWithUser(ctx context.Context, sessionID string) (domain.Session, domain.User, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetSession", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: sessionPK(sessionID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}
	if out.Item == nil {
		return domain.Session{}, domain.User{}, domain.ErrSessionNotFound
	}
	raw := struct {
		ID             string `dynamodbav:"ID"`
		UserID         string `dynamodbav:"UserID"`
		AccessToken    string `dynamodbav:"AccessToken"`
		ExpirationDate string `dynamodbav:"ExpirationDate"`
		CreatedAt      string `dynamodbav:"CreatedAt"`
	}{}
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Session{}, domain.User{}, err
	}
	expirationDate, _ := time.Parse(time.RFC3339, raw.ExpirationDate)
	createdAt, _ := time.Parse(time.RFC3339, raw.CreatedAt)
	session := domain.Session{
		ID:             raw.ID,
		UserID:         raw.UserID,
		AccessToken:    raw.AccessToken,
		ExpirationDate: expirationDate,
		CreatedAt:      createdAt,
	}
	if session.Expired() {
		return domain.Session{}, domain.User{}, domain.ErrSessionNotFound
	}

	users := UserRepository{client: r.client}
	user, err := users.FindByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, domain.User{}, domain.ErrSessionOrphaned
	}
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}
	return session, user, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteSession", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: sessionPK(sessionID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return err
	})
}
