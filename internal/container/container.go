package container

import (
	"context"
	"fmt"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/internal/config"
	"ceylonhomes-api-io/api/pkg/cache"
	"ceylonhomes-api-io/api/pkg/controllers"
	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/media"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/services"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/store/mongostore"
	"ceylonhomes-api-io/api/pkg/store/sqlstore"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/redis/go-redis/v9"
)

const emailQueueSize = 256

type ServiceContainer struct {
	Config *config.Config
	Store  store.Store
	Redis  *redis.Client

	Denylist    *auth.Denylist
	Invalidator *cache.Invalidator
	EmailPool   *notify.EmailWorkerPool

	ListingService    services.ListingService
	ModerationService services.ModerationService
	ReportService     services.ReportService
	InquiryService    services.InquiryService
	SearchService     services.SearchService

	ListingController    *controllers.ListingController
	ModerationController *controllers.ModerationController
	ReportController     *controllers.ReportController
	InquiryController    *controllers.InquiryController
	AuthController       *controllers.AuthController
}

// OpenStore connects the configured store driver.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres, config.DriverSQLite:
		return sqlstore.Open(cfg.StoreDriver, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewServiceContainer wires every service and controller. Optional
// collaborators (redis, cloudinary, smtp) are skipped when not configured.
func NewServiceContainer(ctx context.Context, cfg *config.Config) (*ServiceContainer, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sc := &ServiceContainer{Config: cfg, Store: st}

	var (
		notifiers   notify.Multi
		searchCache services.SearchCache
	)

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		sc.Redis = rdb
		sc.Denylist = auth.NewDenylist(rdb)
		search := cache.NewSearchCache(rdb, cfg.SearchCacheTTL)
		searchCache = search
		sc.Invalidator = cache.NewInvalidator(rdb, search)
		notifiers = append(notifiers, sc.Invalidator)
	}

	if cfg.MailEnabled() {
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			Sender:     cfg.MailSender,
			SenderName: cfg.MailSenderName,
		})
		sc.EmailPool = notify.NewEmailWorkerPool(cfg.EmailWorkers, emailQueueSize, cfg.EmailRatePerSecond, sender)
		notifiers = append(notifiers, notify.NewEmailNotifier(sc.EmailPool, st.Reader().Users()))
	} else {
		util.LogWarning("SMTP_HOST is not set. Email notifications disabled.")
	}

	var files media.FileStore
	if cfg.MediaEnabled() {
		cld, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
		if err != nil {
			sc.Close(ctx)
			return nil, err
		}
		files = cld
	} else {
		util.LogWarning("Cloudinary is not configured. Photo uploads disabled.")
	}

	opts := services.Options{Store: st, Notifier: notifiers}
	editPolicy := lifecycle.EditPolicy{ResubmitRejected: cfg.ResubmitRejectedOnEdit}

	sc.ListingService = services.NewListingService(opts, files, editPolicy)
	sc.ModerationService = services.NewModerationService(opts)
	sc.ReportService = services.NewReportService(opts)
	sc.InquiryService = services.NewInquiryService(opts)
	sc.SearchService = services.NewSearchService(opts, searchCache)

	sc.ListingController = controllers.InitListingController(sc.ListingService, sc.SearchService)
	sc.ModerationController = controllers.InitModerationController(sc.ModerationService, sc.SearchService)
	sc.ReportController = controllers.InitReportController(sc.ReportService)
	sc.InquiryController = controllers.InitInquiryController(sc.InquiryService)
	if sc.Denylist != nil {
		sc.AuthController = controllers.InitAuthController(sc.Denylist)
	} else {
		sc.AuthController = controllers.InitAuthController(nil)
	}

	return sc, nil
}

// Start launches background workers.
func (sc *ServiceContainer) Start(ctx context.Context) {
	if sc.EmailPool != nil {
		sc.EmailPool.Start()
	}
	if sc.Invalidator != nil {
		go func() {
			err := sc.Invalidator.Subscribe(ctx, func(m cache.Message) {
				util.LogInfo(fmt.Sprintf("cache message %s for %s", m.Type, m.Payload))
			})
			if err != nil && ctx.Err() == nil {
				util.LogError("cache subscription ended", err)
			}
		}()
	}
}

// Close drains the email queue and releases connections.
func (sc *ServiceContainer) Close(ctx context.Context) {
	if sc.EmailPool != nil {
		sc.EmailPool.Stop()
	}
	if sc.Redis != nil {
		if err := sc.Redis.Close(); err != nil {
			util.LogError("close redis", err)
		}
	}
	if err := sc.Store.Close(ctx); err != nil {
		util.LogError("close store", err)
	}
}
