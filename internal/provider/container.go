package provider

import (
	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/queue"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	AttributeRepo    repository.AttributeRepository
	SubcategoryRepo  repository.SubcategoryRepository
	ProductRepo      repository.ProductRepository
	ImportBatchRepo  repository.ImportBatchRepository
	MediaRepo        repository.MediaRepository
	VerificationRepo repository.VerificationRepository
	SupplierRepo     repository.SupplierRepository
	DataRequestRepo  repository.DataRequestRepository

	// Services
	AuthService            *service.AuthService
	AttributeService       *service.AttributeService
	AttributeImportService *service.AttributeImportService
	SubcategoryService     *service.SubcategoryService
	ProductService         *service.ProductService
	ImportService          *service.ImportService
	MediaService           *service.MediaService
	VerificationService    *service.VerificationService
	WorkflowService        *service.WorkflowService
	SupplierService        *service.SupplierService
	DataRequestService     *service.DataRequestService
}

// NewContainer initializes the dependency container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.AttributeRepo = repository.NewAttributeRepository(db)
	c.SubcategoryRepo = repository.NewSubcategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ImportBatchRepo = repository.NewImportBatchRepository(db)
	c.MediaRepo = repository.NewMediaRepository(db)
	c.VerificationRepo = repository.NewVerificationRepository(db)
	c.SupplierRepo = repository.NewSupplierRepository(db)
	c.DataRequestRepo = repository.NewDataRequestRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuthService = service.NewAuthService(cfg, c.UserRepo)
	c.AttributeService = service.NewAttributeService(c.AttributeRepo)
	c.AttributeImportService = service.NewAttributeImportService(cfg, c.AttributeRepo)
	c.SubcategoryService = service.NewSubcategoryService(c.SubcategoryRepo, c.AttributeRepo)

	c.MediaService = service.NewMediaService(cfg, c.ProductRepo, c.MediaRepo, service.NewHTTPFetcher(cfg))
	c.VerificationService = service.NewVerificationService(cfg, c.ProductRepo, c.SubcategoryRepo, c.VerificationRepo, service.NewHTTPProber(cfg))
	c.ImportService = service.NewImportService(cfg, c.ProductRepo, c.SubcategoryRepo, c.AttributeRepo, c.ImportBatchRepo, c.MediaService, c.VerificationService, c.QueueClient)
	c.ProductService = service.NewProductService(c.ProductRepo, c.AttributeRepo, c.MediaRepo, c.VerificationRepo)
	c.WorkflowService = service.NewWorkflowService(c.ProductRepo)
	c.SupplierService = service.NewSupplierService(c.SupplierRepo, c.SubcategoryRepo, c.DataRequestRepo)
	c.DataRequestService = service.NewDataRequestService(c.DataRequestRepo, c.SupplierRepo, c.SubcategoryRepo)
}
