package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".webp": {}, ".bmp": {}, ".svg": {},
}

var modelExtensions = map[string]struct{}{
	".glb": {}, ".gltf": {}, ".obj": {}, ".fbx": {},
	".dae": {}, ".3ds": {}, ".stl": {}, ".ply": {},
}

var modelDetectKeywords = []string{"3d", "model", "glb", "gltf", "obj", "fbx", "dae", "3ds", "stl"}

var mimeToExtension = map[string]string{
	"image/jpeg":        ".jpg",
	"image/jpg":         ".jpg",
	"image/png":         ".png",
	"image/gif":         ".gif",
	"image/webp":        ".webp",
	"image/bmp":         ".bmp",
	"image/svg+xml":     ".svg",
	"model/gltf-binary": ".glb",
	"model/gltf+json":   ".gltf",
	"model/obj":         ".obj",
}

// FetchedFile is a downloaded remote file.
type FetchedFile struct {
	Data        []byte
	ContentType string
}

// MediaFetcher downloads remote media. Tests substitute a fake to stay
// off the network.
type MediaFetcher interface {
	Fetch(rawURL string) (*FetchedFile, error)
}

// HTTPFetcher is the production MediaFetcher.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the configured download timeout.
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	timeout := time.Duration(cfg.Media.DownloadTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads one file.
func (f *HTTPFetcher) Fetch(rawURL string) (*FetchedFile, error) {
	resp, err := f.client.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	return &FetchedFile{Data: data, ContentType: contentType}, nil
}

// HTTPProber is the production MediaProber used by verification.
type HTTPProber struct {
	headClient *http.Client
	getClient  *http.Client
}

// NewHTTPProber creates a prober with the configured check timeouts.
func NewHTTPProber(cfg *config.Config) *HTTPProber {
	checkTimeout := time.Duration(cfg.Media.CheckTimeoutSeconds) * time.Second
	if checkTimeout <= 0 {
		checkTimeout = 5 * time.Second
	}
	downloadTimeout := time.Duration(cfg.Media.DownloadTimeoutSeconds) * time.Second
	if downloadTimeout <= 0 {
		downloadTimeout = 30 * time.Second
	}
	return &HTTPProber{
		headClient: &http.Client{Timeout: checkTimeout},
		getClient:  &http.Client{Timeout: downloadTimeout},
	}
}

// CheckURL reports whether a URL answers with HTTP 200.
func (p *HTTPProber) CheckURL(rawURL string) bool {
	resp, err := p.headClient.Head(rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ProbeImage downloads an image and reads its dimensions and format.
func (p *HTTPProber) ProbeImage(rawURL string) (*ImageProbe, error) {
	resp, err := p.getClient.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageProbe{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   strings.ToUpper(format),
		FileSize: int64(len(data)),
	}, nil
}

// MediaStats summarizes one media acquisition pass.
type MediaStats struct {
	ImagesFound      int      `json:"images_found"`
	ImagesDownloaded int      `json:"images_downloaded"`
	ModelsFound      int      `json:"models_found"`
	ModelsDownloaded int      `json:"models_downloaded"`
	Errors           []string `json:"errors"`
}

// MediaService downloads and stores product media files.
type MediaService struct {
	cfg         *config.Config
	productRepo repository.ProductRepository
	mediaRepo   repository.MediaRepository
	fetcher     MediaFetcher
}

// NewMediaService creates the media acquisition service.
func NewMediaService(
	cfg *config.Config,
	productRepo repository.ProductRepository,
	mediaRepo repository.MediaRepository,
	fetcher MediaFetcher,
) *MediaService {
	return &MediaService{
		cfg:         cfg,
		productRepo: productRepo,
		mediaRepo:   mediaRepo,
		fetcher:     fetcher,
	}
}

// ProcessProductMedia downloads every image and 3D model referenced by a
// product's attribute values. Already downloaded URLs are skipped.
func (s *MediaService) ProcessProductMedia(productID uint) (*MediaStats, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	stats := &MediaStats{Errors: []string{}}
	for i := range product.AttributeValues {
		pav := &product.AttributeValues[i]
		value := strings.TrimSpace(pav.Value)
		if value == "" {
			continue
		}

		switch pav.Attribute.Type {
		case constants.AttributeTypeImage:
			stats.ImagesFound++
			downloaded, err := s.downloadIfMissing(product, pav, value, stats.ImagesFound)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("Не удалось скачать изображение: %s", value))
				continue
			}
			if downloaded {
				stats.ImagesDownloaded++
			}
		case constants.AttributeTypeURL:
			if detectMediaType(value) != constants.MediaTypeModel {
				continue
			}
			stats.ModelsFound++
			downloaded, err := s.downloadIfMissing(product, pav, value, stats.ModelsFound)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("Не удалось скачать 3D модель: %s", value))
				continue
			}
			if downloaded {
				stats.ModelsDownloaded++
			}
		}
	}
	return stats, nil
}

// downloadIfMissing fetches and stores one file unless the same source
// URL was stored before. It reports whether a new file was written.
func (s *MediaService) downloadIfMissing(product *models.Product, pav *models.ProductAttributeValue, rawURL string, sortOrder int) (bool, error) {
	attributeID := pav.AttributeID
	existing, err := s.mediaRepo.GetByOriginalURL(product.ID, &attributeID, rawURL)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	media, err := s.downloadAndSave(product, pav, rawURL, sortOrder)
	if err != nil || media == nil {
		if err != nil {
			logger.Warnw("media_download_failed", "url", rawURL, "error", err.Error())
		}
		return false, fmt.Errorf("download failed")
	}
	return true, nil
}

func (s *MediaService) downloadAndSave(product *models.Product, pav *models.ProductAttributeValue, rawURL string, sortOrder int) (*models.ProductMedia, error) {
	mediaType := detectMediaType(rawURL)

	fetched, err := s.fetcher.Fetch(rawURL)
	if err != nil {
		return nil, err
	}

	size := int64(len(fetched.Data))
	if mediaType == constants.MediaTypeImage && size > s.cfg.Media.MaxImageSize {
		return nil, fmt.Errorf("image exceeds size limit")
	}
	if mediaType == constants.MediaTypeModel && size > s.cfg.Media.MaxModelSize {
		return nil, fmt.Errorf("model exceeds size limit")
	}

	originalName := remoteFileName(rawURL)
	if originalName == "" || !strings.Contains(originalName, ".") {
		ext := extensionFromMime(fetched.ContentType, mediaType)
		originalName = fmt.Sprintf("%s_%s_%d%s", product.SKU, pav.Attribute.Code, sortOrder, ext)
	}

	folder := filepath.Join(s.cfg.Media.UploadDir, "images")
	if mediaType == constants.MediaTypeModel {
		folder = filepath.Join(s.cfg.Media.UploadDir, "models")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, err
	}

	fileName := uniqueFileName(folder, originalName, product.ID)
	filePath := filepath.Join(folder, fileName)
	if err := os.WriteFile(filePath, fetched.Data, 0o644); err != nil {
		return nil, err
	}

	width, height := 0, 0
	modelFormat := ""
	if mediaType == constants.MediaTypeImage {
		if imgCfg, _, decErr := image.DecodeConfig(bytes.NewReader(fetched.Data)); decErr == nil {
			width, height = imgCfg.Width, imgCfg.Height
		}
	} else {
		modelFormat = strings.ToLower(filepath.Ext(fileName))
	}

	attributeID := pav.AttributeID
	media := models.ProductMedia{
		ProductID:   product.ID,
		AttributeID: &attributeID,
		MediaType:   mediaType,
		OriginalURL: rawURL,
		FilePath:    filePath,
		FileName:    fileName,
		FileSize:    size,
		MimeType:    fetched.ContentType,
		Width:       width,
		Height:      height,
		ModelFormat: modelFormat,
		SortOrder:   sortOrder,
	}
	if err := s.mediaRepo.Create(&media); err != nil {
		return nil, err
	}
	return &media, nil
}

// detectMediaType classifies a URL as image or 3D model. Model markers
// win; everything else is treated as an image.
func detectMediaType(rawURL string) string {
	lowered := strings.ToLower(rawURL)

	ext := strings.ToLower(path.Ext(urlPath(lowered)))
	if _, ok := modelExtensions[ext]; ok {
		return constants.MediaTypeModel
	}
	if _, ok := imageExtensions[ext]; ok {
		return constants.MediaTypeImage
	}
	for _, keyword := range modelDetectKeywords {
		if strings.Contains(lowered, keyword) {
			return constants.MediaTypeModel
		}
	}
	return constants.MediaTypeImage
}

func urlPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return parsed.Path
}

func remoteFileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(parsed.Path)
}

func extensionFromMime(mimeType, mediaType string) string {
	if ext, ok := mimeToExtension[mimeType]; ok {
		return ext
	}
	if mediaType == constants.MediaTypeImage {
		return ".jpg"
	}
	return ".glb"
}

// uniqueFileName prefixes the file with the product id and bumps a
// counter until the name is free in the target folder.
func uniqueFileName(folder, original string, productID uint) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)

	for counter := 1; ; counter++ {
		name := fmt.Sprintf("%d_%s%s", productID, base, ext)
		if counter > 1 {
			name = fmt.Sprintf("%d_%s_%d%s", productID, base, counter, ext)
		}
		if _, err := os.Stat(filepath.Join(folder, name)); os.IsNotExist(err) {
			return name
		}
	}
}
