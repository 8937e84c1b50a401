package dynamo

import (
	"github.com/enkv/draftpad/models"
)

type dynamoUser struct {
	PK      string        `dynamodbav:"PK"`
	SK      string        `dynamodbav:"SK"`
	Id      string        `dynamodbav:"Id"`
	Name    string        `dynamodbav:"Name"`
	Email   string        `dynamodbav:"Email"`
	Image   string        `dynamodbav:"Image"`
	Created int64         `dynamodbav:"Created"`
	Drafts  []dynamoDraft `dynamodbav:"Drafts"`
}

type dynamoDraft struct {
	Id      string `dynamodbav:"Id"`
	Text    string `dynamodbav:"Text"`
	Created int64  `dynamodbav:"Created"`
	FileId  string `dynamodbav:"FileId"`
}

func userPK(email string) string {
	return "USER#" + email
}

// Map domain User -> Dynamo
func userToDynamo(u models.User) dynamoUser {
	return dynamoUser{
		PK:      userPK(u.Email),
		SK:      "PROFILE",
		Id:      u.Id,
		Name:    u.Name,
		Email:   u.Email,
		Image:   u.Image,
		Created: u.Created,
		Drafts:  draftsToDynamo(u.Drafts),
	}
}

// Map Dynamo -> domain User
func userFromDynamo(du dynamoUser) models.User {
	return models.User{
		Id:      du.Id,
		Name:    du.Name,
		Email:   du.Email,
		Image:   du.Image,
		Created: du.Created,
		Drafts:  draftsFromDynamo(du.Drafts),
	}
}

func draftToDynamo(d models.Draft) dynamoDraft {
	return dynamoDraft{Id: d.Id, Text: d.Text, Created: d.Created, FileId: d.FileId}
}

func draftsToDynamo(drafts []models.Draft) []dynamoDraft {
	out := make([]dynamoDraft, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, draftToDynamo(d))
	}
	return out
}

func draftsFromDynamo(drafts []dynamoDraft) []models.Draft {
	out := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, models.Draft{Id: d.Id, Text: d.Text, Created: d.Created, FileId: d.FileId})
	}
	return out
}
