package constants

// Product workflow statuses
const (
	ProductStatusDraft      = "draft"
	ProductStatusInProgress = "in_progress"
	ProductStatusToReview   = "to_review"
	ProductStatusApproved   = "approved"
	ProductStatusRejected   = "rejected"
	ProductStatusExported   = "exported"
)

// Attribute value types
const (
	AttributeTypeText    = "text"
	AttributeTypeNumber  = "number"
	AttributeTypeDate    = "date"
	AttributeTypeBoolean = "boolean"
	AttributeTypeURL     = "url"
	AttributeTypeImage   = "image"
	AttributeTypeSelect  = "select"
)

// AttributeTypes lists every supported attribute type.
var AttributeTypes = []string{
	AttributeTypeText,
	AttributeTypeNumber,
	AttributeTypeDate,
	AttributeTypeBoolean,
	AttributeTypeURL,
	AttributeTypeImage,
	AttributeTypeSelect,
}

// Verification issue types
const (
	IssueMissingRequired    = "missing_required"
	IssueInvalidType        = "invalid_type"
	IssueInvalidValue       = "invalid_value"
	IssueInvalidFormat      = "invalid_format"
	IssueDuplicate          = "duplicate"
	IssueImageNotAccessible = "image_not_accessible"
	IssueImageLowResolution = "image_low_resolution"
	IssueImageInvalidFormat = "image_invalid_format"
	IssueMediaCountLow      = "media_count_low"
)

// Issue severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Verification score thresholds and weights
const (
	ScoreThresholdApproved = 80
	ScoreThresholdToReview = 50

	WeightCompleteness = 0.4
	WeightQuality      = 0.4
	WeightMedia        = 0.2
)

// Media types
const (
	MediaTypeImage = "image"
	MediaTypeModel = "3d_model"
)

// Import source kinds
const (
	ImportSourceFile      = "file"
	ImportSourceClipboard = "clipboard"
)

// Supplier data request lifecycle
const (
	DataRequestStatusNew        = "new"
	DataRequestStatusSent       = "request_sent"
	DataRequestStatusReceived   = "data_received"
	DataRequestStatusNoResponse = "no_response"
	DataRequestStatusCancelled  = "cancelled"
)

// Supplier collection states derived from request history
const (
	SupplierStateNew        = "new"
	SupplierStateWaiting    = "waiting"
	SupplierStateHasData    = "has_data"
	SupplierStateNoResponse = "no_response"
)

// Operator roles
const (
	UserRoleAdmin    = "admin"
	UserRoleOperator = "operator"
)

// Operator account statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Queue constants
const (
	QueueDefault      = "default"
	TaskMediaFetch    = "media:fetch"
	TaskProductVerify = "product:verify"
)

// Cache defaults
const (
	RedisPrefixDefault = "cn"
)
