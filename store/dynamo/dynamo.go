package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gofrs/uuid/v5"

	"github.com/enkv/draftpad/models"
	"github.com/enkv/draftpad/store"
)

// DynamoDraftStore keeps one item per user (PK "USER#<email>", SK "PROFILE")
// with the draft list embedded as a list attribute. Edits, deletes and
// file-id attachments locate the draft's index with a consistent read, then
// mutate that position under a condition on the draft's id, so a list that
// shifted under a concurrent writer fails the condition instead of touching
// the wrong draft.
type DynamoDraftStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoDraftStore(ctx context.Context, devMode bool, dynamodbEndpoint string, tableName string) (*DynamoDraftStore, error) {
	client, err := newDynamoDBClient(context.Background(), devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	foundTable := false
	for _, table := range tables {
		if table == tableName {
			foundTable = true
			break
		}
	}
	if !foundTable {
		return nil, fmt.Errorf("given table name '%s' not found in dynamodb", tableName)
	}

	return &DynamoDraftStore{client: client, tableName: tableName}, nil
}

func (dynamoStore *DynamoDraftStore) EnsureUser(ctx context.Context, user models.User) (models.User, bool, error) {
	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, false, err
	}
	user.Id = userId.String()

	du := userToDynamo(user)
	du.Created = time.Now().Unix()
	if du.Drafts == nil {
		du.Drafts = []dynamoDraft{}
	}
	du, created, err := ensureProfile(dynamoStore, ctx, du)
	if err != nil {
		return models.User{}, false, err
	}

	return userFromDynamo(du), created, nil
}

func (dynamoStore *DynamoDraftStore) SyncUser(ctx context.Context, email string, name string, image string) (models.User, error) {
	du, err := updateProfile(dynamoStore, ctx, email,
		"SET #nm = :nm, Image = :img",
		"attribute_exists(PK)",
		map[string]string{"#nm": "Name"},
		map[string]types.AttributeValue{
			":nm":  &types.AttributeValueMemberS{Value: name},
			":img": &types.AttributeValueMemberS{Value: image},
		},
		store.ErrUserNotFound,
	)
	if err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoDraftStore) GetUser(ctx context.Context, email string) (models.User, error) {
	du, err := getProfile(dynamoStore, ctx, email, false)
	if err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoDraftStore) DeleteUser(ctx context.Context, email string) error {
	return deleteProfile(dynamoStore, ctx, email)
}

func (dynamoStore *DynamoDraftStore) AppendDraft(ctx context.Context, email string, text string) ([]models.Draft, error) {
	draftId, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	dd := dynamoDraft{
		Id:      draftId.String(),
		Text:    text,
		Created: time.Now().Unix(),
	}
	newList, err := attributevalue.MarshalList([]dynamoDraft{dd})
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	du, err := updateProfile(dynamoStore, ctx, email,
		"SET #d = list_append(if_not_exists(#d, :empty), :new)",
		"attribute_exists(PK)",
		map[string]string{"#d": "Drafts"},
		map[string]types.AttributeValue{
			":new":   &types.AttributeValueMemberL{Value: newList},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		store.ErrUserNotFound,
	)
	if err != nil {
		return nil, err
	}

	return draftsFromDynamo(du.Drafts), nil
}

func (dynamoStore *DynamoDraftStore) UpdateDraftText(ctx context.Context, email string, draftId string, newText string) ([]models.Draft, error) {
	return dynamoStore.mutateDraft(ctx, email, draftId,
		"SET #d[%d].#txt = :txt",
		map[string]string{"#txt": "Text"},
		map[string]types.AttributeValue{
			":txt": &types.AttributeValueMemberS{Value: newText},
		},
	)
}

func (dynamoStore *DynamoDraftStore) RemoveDraft(ctx context.Context, email string, draftId string) ([]models.Draft, error) {
	return dynamoStore.mutateDraft(ctx, email, draftId, "REMOVE #d[%d]", nil, nil)
}

func (dynamoStore *DynamoDraftStore) AttachFileId(ctx context.Context, email string, draftId string, fileId string) ([]models.Draft, error) {
	return dynamoStore.mutateDraft(ctx, email, draftId,
		"SET #d[%d].FileId = :fid",
		nil,
		map[string]types.AttributeValue{
			":fid": &types.AttributeValueMemberS{Value: fileId},
		},
	)
}

// mutateDraft locates the draft by id and applies updateExprFmt (with the
// located index substituted in) under the condition that the element at that
// index still carries the expected id. At most one draft is ever mutated per
// call; a failed condition reports store.ErrDraftNotFound.
func (dynamoStore *DynamoDraftStore) mutateDraft(
	ctx context.Context,
	email string,
	draftId string,
	updateExprFmt string,
	exprAttrNames map[string]string,
	exprAttrValues map[string]types.AttributeValue,
) ([]models.Draft, error) {
	du, err := getProfile(dynamoStore, ctx, email, true)
	if err != nil {
		return nil, err
	}

	idx := findDraftIndex(du.Drafts, draftId)
	if idx < 0 {
		return nil, store.ErrDraftNotFound
	}

	names := map[string]string{"#d": "Drafts"}
	for k, v := range exprAttrNames {
		names[k] = v
	}
	values := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: draftId},
	}
	for k, v := range exprAttrValues {
		values[k] = v
	}

	updated, err := updateProfile(dynamoStore, ctx, email,
		fmt.Sprintf(updateExprFmt, idx),
		fmt.Sprintf("#d[%d].Id = :id", idx),
		names,
		values,
		store.ErrDraftNotFound,
	)
	if err != nil {
		return nil, err
	}

	return draftsFromDynamo(updated.Drafts), nil
}
