package models

import "time"

// AutomaticReviewer tags audit records produced without human review.
const AutomaticReviewer = "automatic system"

// VerificationAudit records one selfie verification attempt: who, which
// images were compared, and what the outcome was.
type VerificationAudit struct {
	ID           string             `bson:"id" json:"id"`
	UserID       string             `bson:"userId" json:"userId"`
	SelfieURL    string             `bson:"selfieUrl" json:"selfieUrl"`
	ReferenceURL string             `bson:"referenceUrl" json:"referenceUrl"`
	Outcome      VerificationStatus `bson:"outcome" json:"outcome"`
	Reviewer     string             `bson:"reviewer" json:"reviewer"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
