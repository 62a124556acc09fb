package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// allowedImageFormats whitelists decoded image formats for verification.
var allowedImageFormats = map[string]struct{}{
	"JPEG": {}, "JPG": {}, "PNG": {}, "WEBP": {},
}

// modelURLExtensions mark URL values pointing at 3D model files.
var modelURLExtensions = []string{".glb", ".gltf", ".obj", ".fbx", ".3ds", ".dae", ".stl"}

var modelURLKeywords = []string{"3d", "model", "glb", "gltf", "obj", "fbx"}

// ImageProbe describes a remote image fetched during verification.
type ImageProbe struct {
	Width    int
	Height   int
	Format   string
	FileSize int64
}

// MediaProber checks remote media referenced by attribute values. The
// HTTP implementation lives in the media service; tests substitute a
// fake.
type MediaProber interface {
	CheckURL(url string) bool
	ProbeImage(url string) (*ImageProbe, error)
}

// VerificationService scores products and drives automatic status
// transitions.
type VerificationService struct {
	cfg              *config.Config
	productRepo      repository.ProductRepository
	subcatRepo       repository.SubcategoryRepository
	verificationRepo repository.VerificationRepository
	prober           MediaProber
}

// NewVerificationService creates the verification service.
func NewVerificationService(
	cfg *config.Config,
	productRepo repository.ProductRepository,
	subcatRepo repository.SubcategoryRepository,
	verificationRepo repository.VerificationRepository,
	prober MediaProber,
) *VerificationService {
	return &VerificationService{
		cfg:              cfg,
		productRepo:      productRepo,
		subcatRepo:       subcatRepo,
		verificationRepo: verificationRepo,
		prober:           prober,
	}
}

type issueDraft struct {
	issueType   string
	attributeID *uint
	message     string
	severity    string
}

// VerifyProduct runs the full verification of one product and applies
// the score based status transition.
func (s *VerificationService) VerifyProduct(productID, userID uint) (*models.ProductVerification, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	completenessScore, completenessIssues, err := s.checkCompleteness(product)
	if err != nil {
		return nil, err
	}
	qualityScore, qualityIssues, err := s.checkQuality(product)
	if err != nil {
		return nil, err
	}
	mediaScore, mediaIssues := s.checkMedia(product)

	overall := int(math.Round(
		float64(completenessScore)*constants.WeightCompleteness +
			float64(qualityScore)*constants.WeightQuality +
			float64(mediaScore)*constants.WeightMedia,
	))

	verification := models.ProductVerification{
		ProductID:         product.ID,
		CompletenessScore: completenessScore,
		QualityScore:      qualityScore,
		MediaScore:        mediaScore,
		OverallScore:      overall,
		VerifiedAt:        time.Now(),
		VerifiedByID:      userID,
	}
	for _, draft := range append(append(completenessIssues, qualityIssues...), mediaIssues...) {
		verification.Issues = append(verification.Issues, models.VerificationIssue{
			IssueType:   draft.issueType,
			AttributeID: draft.attributeID,
			Message:     draft.message,
			Severity:    draft.severity,
		})
	}
	if err := s.verificationRepo.Create(&verification); err != nil {
		return nil, err
	}

	if err := s.applyScoreTransition(product, overall, userID); err != nil {
		return nil, err
	}

	logger.Infow("product_verified",
		"product_id", product.ID,
		"completeness", completenessScore,
		"quality", qualityScore,
		"media", mediaScore,
		"overall", overall,
	)
	return &verification, nil
}

// checkCompleteness scores the presence of required attribute values.
func (s *VerificationService) checkCompleteness(product *models.Product) (int, []issueDraft, error) {
	schema, err := s.subcatRepo.Schema(product.SubcategoryID)
	if err != nil {
		return 0, nil, err
	}

	var required []models.SubcategoryAttribute
	for _, binding := range schema {
		if binding.IsRequired {
			required = append(required, binding)
		}
	}
	if len(required) == 0 {
		return 100, nil, nil
	}

	filled := 0
	var issues []issueDraft
	for _, binding := range required {
		if product.FilledAttributeValue(binding.AttributeID) {
			filled++
			continue
		}
		attrID := binding.AttributeID
		issues = append(issues, issueDraft{
			issueType:   constants.IssueMissingRequired,
			attributeID: &attrID,
			message:     fmt.Sprintf("Отсутствует обязательное поле: %s", binding.Attribute.Name),
			severity:    constants.SeverityError,
		})
	}
	score := int(float64(filled) / float64(len(required)) * 100)
	return score, issues, nil
}

// checkQuality scores set values against type, rules and uniqueness.
func (s *VerificationService) checkQuality(product *models.Product) (int, []issueDraft, error) {
	var issues []issueDraft
	total := 0
	valid := 0

	for i := range product.AttributeValues {
		pav := &product.AttributeValues[i]
		total++
		value := strings.TrimSpace(pav.Value)
		if value == "" {
			continue
		}
		attr := pav.Attribute
		attrID := attr.ID

		if !validateAttributeType(&attr, value) {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueInvalidType,
				attributeID: &attrID,
				message:     fmt.Sprintf("Неверный тип данных для атрибута %s", attr.Name),
				severity:    constants.SeverityError,
			})
			continue
		}
		if !validateAttributeRules(&attr, value) {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueInvalidValue,
				attributeID: &attrID,
				message:     fmt.Sprintf("Значение не соответствует правилам валидации для %s", attr.Name),
				severity:    constants.SeverityWarning,
			})
			continue
		}
		if attr.IsUnique {
			owner, err := s.productRepo.FindValueOwner(attr.ID, value, product.ID)
			if err != nil {
				return 0, nil, err
			}
			if owner != nil {
				issues = append(issues, issueDraft{
					issueType:   constants.IssueDuplicate,
					attributeID: &attrID,
					message:     fmt.Sprintf("Дубликат значения для уникального атрибута %s: %s", attr.Name, value),
					severity:    constants.SeverityError,
				})
				continue
			}
		}
		valid++
	}

	if total == 0 {
		return 100, issues, nil
	}
	return int(float64(valid) / float64(total) * 100), issues, nil
}

// checkMedia scores image count, image health and 3D model reachability.
func (s *VerificationService) checkMedia(product *models.Product) (int, []issueDraft) {
	var issues []issueDraft
	score := 100

	var imageValues []*models.ProductAttributeValue
	var urlValues []*models.ProductAttributeValue
	for i := range product.AttributeValues {
		pav := &product.AttributeValues[i]
		switch pav.Attribute.Type {
		case constants.AttributeTypeImage:
			imageValues = append(imageValues, pav)
		case constants.AttributeTypeURL:
			urlValues = append(urlValues, pav)
		}
	}

	if len(imageValues) == 0 {
		issues = append(issues, issueDraft{
			issueType: constants.IssueMediaCountLow,
			message:   "Отсутствуют изображения товара",
			severity:  constants.SeverityWarning,
		})
		score = 50
	} else if len(imageValues) < s.minImages() {
		issues = append(issues, issueDraft{
			issueType: constants.IssueMediaCountLow,
			message:   fmt.Sprintf("Мало изображений товара: %d (рекомендуется минимум %d)", len(imageValues), s.minImages()),
			severity:  constants.SeverityWarning,
		})
		penalty := (s.minImages() - len(imageValues)) * 10
		if score-penalty > 60 {
			score -= penalty
		} else {
			score = 60
		}
	}

	validImages := 0
	for _, pav := range imageValues {
		url := strings.TrimSpace(pav.Value)
		if url == "" {
			continue
		}
		attrID := pav.AttributeID

		if s.prober == nil || !s.prober.CheckURL(url) {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueImageNotAccessible,
				attributeID: &attrID,
				message:     fmt.Sprintf("Изображение недоступно: %s", url),
				severity:    constants.SeverityError,
			})
			continue
		}

		probe, err := s.prober.ProbeImage(url)
		if err != nil {
			probe = &ImageProbe{}
		}
		if probe.Width < s.cfg.Media.MinImageWidth || probe.Height < s.cfg.Media.MinImageHeight {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueImageLowResolution,
				attributeID: &attrID,
				message:     fmt.Sprintf("Низкое разрешение изображения (%dx%d): %s", probe.Width, probe.Height, url),
				severity:    constants.SeverityWarning,
			})
			continue
		}
		if _, ok := allowedImageFormats[strings.ToUpper(probe.Format)]; !ok {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueImageInvalidFormat,
				attributeID: &attrID,
				message:     fmt.Sprintf("Неподдерживаемый формат изображения (%s): %s", probe.Format, url),
				severity:    constants.SeverityWarning,
			})
			continue
		}
		if probe.FileSize > s.cfg.Media.MaxImageSize {
			issues = append(issues, issueDraft{
				issueType:   constants.IssueImageInvalidFormat,
				attributeID: &attrID,
				message:     fmt.Sprintf("Слишком большой размер файла (%.1fMB): %s", float64(probe.FileSize)/1024/1024, url),
				severity:    constants.SeverityWarning,
			})
			continue
		}
		validImages++
	}

	if len(imageValues) > 0 {
		imageScore := int(float64(validImages) / float64(len(imageValues)) * 100)
		if imageScore < score {
			score = imageScore
		}
	}

	type modelRef struct {
		attributeID uint
		url         string
	}
	var modelURLs []modelRef
	for _, pav := range urlValues {
		if is3DModelURL(pav.Value) {
			modelURLs = append(modelURLs, modelRef{attributeID: pav.AttributeID, url: strings.TrimSpace(pav.Value)})
		}
	}
	if len(modelURLs) > 0 {
		validModels := 0
		for _, ref := range modelURLs {
			if s.prober != nil && s.prober.CheckURL(ref.url) {
				validModels++
				continue
			}
			attrID := ref.attributeID
			issues = append(issues, issueDraft{
				issueType:   constants.IssueImageNotAccessible,
				attributeID: &attrID,
				message:     fmt.Sprintf("3D модель недоступна: %s", ref.url),
				severity:    constants.SeverityWarning,
			})
		}
		if validModels == 0 {
			score -= 20
		} else if validModels < len(modelURLs) {
			score -= 10
		}
		if score < 0 {
			score = 0
		}
	}
	return score, issues
}

func (s *VerificationService) minImages() int {
	if s.cfg.Media.MinImagesPerProduct > 0 {
		return s.cfg.Media.MinImagesPerProduct
	}
	return 3
}

// applyScoreTransition moves a product to the status its overall score
// dictates. The transition also fires for manually set statuses.
func (s *VerificationService) applyScoreTransition(product *models.Product, score int, userID uint) error {
	newStatus := constants.ProductStatusRejected
	switch {
	case score >= constants.ScoreThresholdApproved:
		newStatus = constants.ProductStatusApproved
	case score >= constants.ScoreThresholdToReview:
		newStatus = constants.ProductStatusToReview
	}
	if product.Status == newStatus {
		return nil
	}

	oldStatus := product.Status
	product.Status = newStatus
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	return s.productRepo.AddStatusHistory(&models.ProductStatusHistory{
		ProductID:   product.ID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedByID: userID,
		Comment:     fmt.Sprintf("Автоматический переход на основе верификации (оценка: %d%%)", score),
		ChangedAt:   time.Now(),
	})
}

// is3DModelURL reports whether a URL points at a 3D model by extension
// or keyword.
func is3DModelURL(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return false
	}
	for _, ext := range modelURLExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	for _, keyword := range modelURLKeywords {
		if strings.Contains(url, keyword) {
			return true
		}
	}
	return false
}
