package vaultserver

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
)

// fakeDynamo is an in-memory table keyed by PK and SK.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(t *testing.T, item map[string]types.AttributeValue) (string, string) {
	var k struct{ PK, SK string }
	require.NoError(t, attributevalue.UnmarshalMap(item, &k))
	return k.PK, k.SK
}

type dynamoT struct {
	*fakeDynamo
	t *testing.T
}

func (f dynamoT) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk, sk := keyOf(f.t, in.Key)
	return &dynamodb.GetItemOutput{Item: f.items[pk+"|"+sk]}, nil
}

func (f dynamoT) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk, sk := keyOf(f.t, in.Item)
	if _, exists := f.items[pk+"|"+sk]; exists && in.ConditionExpression != nil {
		return nil, errors.New("conditional check failed")
	}
	f.items[pk+"|"+sk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f dynamoT) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var vals map[string]string
	require.NoError(f.t, attributevalue.UnmarshalMap(in.ExpressionAttributeValues, &vals))

	keys := make([]string, 0)
	for k := range f.items {
		if strings.HasPrefix(k, vals[":pk"]+"|"+vals[":rec"]) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &dynamodb.QueryOutput{}
	for _, k := range keys {
		out.Items = append(out.Items, f.items[k])
	}
	return out, nil
}

func storeContract(t *testing.T, st Store) {
	ctx := context.Background()
	id := domain.SessionID("8f0e2c4a-6d2b-4c1e-9a57-2f7d0c3b9e11")

	_, err := st.GetSession(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	err = st.AppendRecord(ctx, id, domain.PatientRecord{ID: "x", Name: "n"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, st.CreateSession(ctx, domain.HandoffSession{
		SessionID: id, DoctorName: "Dr. Rao", CreatedAt: "2025-01-01T00:00:00Z",
	}))

	got, err := st.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", got.DoctorName)
	assert.Empty(t, got.Patients)

	names := []string{"Jane", "Ravi", "Meera"}
	for _, n := range names {
		rec := domain.PatientRecord{
			ID: domain.RecordID(ulid.Make().String()), Name: n, Age: "30", Symptoms: "fever",
		}
		require.NoError(t, st.AppendRecord(ctx, id, rec))
	}

	got, err = st.GetSession(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Patients, 3)
	for i, n := range names {
		assert.Equal(t, n, got.Patients[i].Name)
	}
	require.NoError(t, st.Close())
}

func TestMemoryStore(t *testing.T) { storeContract(t, NewMemoryStore()) }

func TestLevelStore(t *testing.T) {
	st, err := OpenLevelStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	storeContract(t, st)
}

func TestLevelStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	st, err := OpenLevelStore(path)
	require.NoError(t, err)
	require.NoError(t, st.CreateSession(ctx, domain.HandoffSession{SessionID: "s", DoctorName: "D"}))
	require.NoError(t, st.AppendRecord(ctx, "s", domain.PatientRecord{ID: "01A", Name: "Jane"}))
	require.NoError(t, st.Close())

	st, err = OpenLevelStore(path)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.GetSession(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got.Patients, 1)
	assert.Equal(t, "Jane", got.Patients[0].Name)
}

func TestDynamoStore(t *testing.T) {
	storeContract(t, &DynamoStore{DB: dynamoT{newFakeDynamo(), t}, Table: "aura-vault"})
}

func TestMemoryStore_ReadsAreCopies(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.CreateSession(ctx, domain.HandoffSession{SessionID: "s"}))
	require.NoError(t, st.AppendRecord(ctx, "s", domain.PatientRecord{Name: "a"}))

	got, _ := st.GetSession(ctx, "s")
	got.Patients[0].Name = "mutated"

	again, _ := st.GetSession(ctx, "s")
	assert.Equal(t, "a", again.Patients[0].Name)
}
