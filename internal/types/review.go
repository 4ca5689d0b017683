package types

// Review is one user review of a place. ID is the creation timestamp in unix
// milliseconds; AuthorID carries the authoring user separately (the legacy
// data reused the user id as the review id, which made per-user listing
// ambiguous). Edit identity for update and delete is the (ID, Date) pair
// because timestamp ids are only unique per place.
type Review struct {
	ID       int64  `json:"id"`
	AuthorID string `json:"id_user"`
	Author   string `json:"user"`
	Rating   int    `json:"rating"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	Photo    string `json:"photo,omitempty"` // data URL, required on submit
}

// UserReview is a review joined with the composite id of the place it was
// written for, as returned by the cross-place scan.
type UserReview struct {
	Review
	PlaceID string `json:"placeId"`
}

// Review field limits enforced before any write.
const (
	ReviewMinTitleLen = 5
	ReviewMinTextLen  = 20
	ReviewMinRating   = 1
	ReviewMaxRating   = 5
)
