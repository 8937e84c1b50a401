package models

type User struct {
	Id      string
	Name    string
	Email   string
	Image   string
	Created int64
	Drafts  []Draft
}

// Draft is a note snippet embedded in its owner's user record. Id is a
// UUIDv7 assigned when the draft is appended, so ids sort in creation order.
// FileId stays empty until the draft has been exported to Drive.
type Draft struct {
	Id      string `json:"id"`
	Text    string `json:"draft"`
	Created int64  `json:"createdAt"`
	FileId  string `json:"fileId"`
}
