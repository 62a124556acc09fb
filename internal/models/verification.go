package models

import "time"

// ProductVerification is one verification run over a product.
type ProductVerification struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	ProductID         uint      `gorm:"not null;index" json:"product_id"`
	CompletenessScore int       `gorm:"not null;default:0" json:"completeness_score"`
	QualityScore      int       `gorm:"not null;default:0" json:"quality_score"`
	MediaScore        int       `gorm:"not null;default:0" json:"media_score"`
	OverallScore      int       `gorm:"not null;default:0" json:"overall_score"`
	VerifiedAt        time.Time `json:"verified_at"`
	VerifiedByID      uint      `json:"verified_by_id"`

	Issues []VerificationIssue `gorm:"foreignKey:VerificationID" json:"issues,omitempty"`
}

// TableName sets the table name.
func (ProductVerification) TableName() string {
	return "product_verifications"
}

// VerificationIssue is one problem found during verification.
type VerificationIssue struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	VerificationID uint   `gorm:"not null;index" json:"verification_id"`
	IssueType      string `gorm:"size:50;not null" json:"issue_type"`
	AttributeID    *uint  `gorm:"index" json:"attribute_id"`
	Message        string `gorm:"type:text" json:"message"`
	Severity       string `gorm:"size:20;not null;default:'error'" json:"severity"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

// TableName sets the table name.
func (VerificationIssue) TableName() string {
	return "verification_issues"
}
