package dto

// ReviewRequest is the review form. Fields are validated by the review service
// so that a bad submission can answer with a single generic notice.
type ReviewRequest struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}
