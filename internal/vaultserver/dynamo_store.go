package vaultserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"aura/internal/domain"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore keeps sessions in a single DynamoDB table keyed by PK and SK
// (both strings). A session is one META item plus one RECORD# item per upload.
type DynamoStore struct {
	DB    DynamoAPI
	Table string
}

type dynamoItem struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	DoctorName string                `dynamodbav:"doctor_name,omitempty"`
	CreatedAt  string                `dynamodbav:"created_at,omitempty"`
	Record     *domain.PatientRecord `dynamodbav:"record,omitempty"`
}

const (
	metaSK       = "META"
	recordPrefSK = "RECORD#"
)

// makeKeys constructs the partition and sort keys for a session item.
func makeKeys(id domain.SessionID, sk string) (pk, sortKey string) {
	return fmt.Sprintf("SESSION#%s", id), sk
}

// NewDynamoClient loads AWS configuration for region. A non-empty endpoint
// (e.g. http://localstack:4566) overrides the service URL.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoStore) CreateSession(ctx context.Context, sess domain.HandoffSession) error {
	pk, sk := makeKeys(sess.SessionID, metaSK)
	item, err := attributevalue.MarshalMap(dynamoItem{
		PK: pk, SK: sk, DoctorName: sess.DoctorName, CreatedAt: sess.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, err = s.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return err
	}
	for _, rec := range sess.Patients {
		if err := s.putRecord(ctx, sess.SessionID, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *DynamoStore) GetSession(ctx context.Context, id domain.SessionID) (domain.HandoffSession, error) {
	meta, err := s.getMeta(ctx, id)
	if err != nil {
		return domain.HandoffSession{}, err
	}
	sess := domain.HandoffSession{
		SessionID:  id,
		DoctorName: meta.DoctorName,
		CreatedAt:  meta.CreatedAt,
		Patients:   []domain.PatientRecord{},
	}

	pk, _ := makeKeys(id, "")
	values, err := attributevalue.MarshalMap(map[string]string{":pk": pk, ":rec": recordPrefSK})
	if err != nil {
		return domain.HandoffSession{}, err
	}
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(s.Table),
		KeyConditionExpression:    aws.String("PK = :pk AND begins_with(SK, :rec)"),
		ExpressionAttributeValues: values,
		ConsistentRead:            aws.Bool(true),
	}
	for {
		out, err := s.DB.Query(ctx, in)
		if err != nil {
			return domain.HandoffSession{}, err
		}
		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return domain.HandoffSession{}, err
		}
		for _, it := range items {
			if it.Record != nil {
				sess.Patients = append(sess.Patients, *it.Record)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return sess, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *DynamoStore) AppendRecord(ctx context.Context, id domain.SessionID, rec domain.PatientRecord) error {
	if rec.ID == "" {
		return errors.New("record has no id")
	}
	if _, err := s.getMeta(ctx, id); err != nil {
		return err
	}
	return s.putRecord(ctx, id, rec)
}

func (s *DynamoStore) Close() error { return nil }

func (s *DynamoStore) getMeta(ctx context.Context, id domain.SessionID) (dynamoItem, error) {
	pk, sk := makeKeys(id, metaSK)
	key, err := attributevalue.MarshalMap(map[string]string{"PK": pk, "SK": sk})
	if err != nil {
		return dynamoItem{}, err
	}
	out, err := s.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return dynamoItem{}, err
	}
	if len(out.Item) == 0 {
		return dynamoItem{}, domain.ErrSessionNotFound
	}
	var meta dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &meta); err != nil {
		return dynamoItem{}, err
	}
	return meta, nil
}

func (s *DynamoStore) putRecord(ctx context.Context, id domain.SessionID, rec domain.PatientRecord) error {
	pk, sk := makeKeys(id, recordPrefSK+rec.ID.String())
	item, err := attributevalue.MarshalMap(dynamoItem{PK: pk, SK: sk, Record: &rec})
	if err != nil {
		return err
	}
	_, err = s.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	return err
}

var _ Store = (*DynamoStore)(nil)
