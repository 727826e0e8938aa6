// Package bootstrap assembles C10 (spec.md §3): every repository, use
// case, and transport the server and botwebhook CLI commands need, wired
// once from a loaded Config and shared *gorm.DB/logger.Interface pair.
// Grounded on the teacher's cli/server/command.go, which wires its
// (much smaller) dependency graph inline — repairbay's graph is large
// enough to warrant its own package instead of one long run() function.
package bootstrap

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	accessrequestapp "github.com/pedalworks/repairbay/internal/application/accessrequest"
	inventoryapp "github.com/pedalworks/repairbay/internal/application/inventory"
	permissionapp "github.com/pedalworks/repairbay/internal/application/permission"
	apptelegram "github.com/pedalworks/repairbay/internal/application/telegram"
	ticketuc "github.com/pedalworks/repairbay/internal/application/ticket/usecases"
	userapp "github.com/pedalworks/repairbay/internal/application/user"
	worksessionuc "github.com/pedalworks/repairbay/internal/application/worksession/usecases"
	xpledgerapp "github.com/pedalworks/repairbay/internal/application/xpledger"
	"github.com/pedalworks/repairbay/internal/domain/telegramverify"
	infraauth "github.com/pedalworks/repairbay/internal/infrastructure/auth"
	"github.com/pedalworks/repairbay/internal/infrastructure/cache"
	"github.com/pedalworks/repairbay/internal/infrastructure/config"
	infrapermission "github.com/pedalworks/repairbay/internal/infrastructure/permission"
	"github.com/pedalworks/repairbay/internal/infrastructure/repository"
	infratelegram "github.com/pedalworks/repairbay/internal/infrastructure/telegram"
	interfacebot "github.com/pedalworks/repairbay/internal/interfaces/bot"
	httpRouter "github.com/pedalworks/repairbay/internal/interfaces/http"
	"github.com/pedalworks/repairbay/internal/interfaces/http/handlers"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
	"github.com/pedalworks/repairbay/internal/shared/db"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Container holds every wired component the CLI commands drive. Nothing
// outside internal/interfaces/cli and cmd/repairbay should construct one
// directly.
type Container struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB

	Router        *httpRouter.Router
	BotDispatcher *apptelegram.Dispatcher
	BotHandler    *interfacebot.Handler
	BotService    *infratelegram.BotService
	Enforcer      *infrapermission.Enforcer

	offsetStore *repository.TelegramOffsetStore
}

// New wires the full dependency graph. cfg, log, and database must already
// be initialized by the caller (config.Load, logger.Init, database.Init).
func New(cfg *config.Config, log logger.Interface, gormDB *gorm.DB) (*Container, error) {
	enforcer, err := infrapermission.NewEnforcer(gormDB, cfg.Casbin.ModelPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize casbin enforcer: %w", err)
	}
	if err := infrapermission.InitCapabilityPolicies(enforcer.Raw(), log); err != nil {
		return nil, fmt.Errorf("failed to seed capability policies: %w", err)
	}
	permissions := permissionapp.NewService(enforcer, log)

	txManager := db.NewTransactionManager(gormDB)

	userRepo := repository.NewUserRepositoryDDD(gormDB, txManager, log)
	accessRequestRepo := repository.NewAccessRequestRepositoryDDD(gormDB, log)
	categoryRepo := repository.NewCategoryRepositoryDDD(gormDB, log)
	itemRepo := repository.NewItemRepositoryDDD(gormDB, log)
	partRepo := repository.NewPartRepositoryDDD(gormDB, log)
	ticketRepo := repository.NewTicketRepositoryDDD(gormDB, log)
	sessionRepo := repository.NewWorkSessionRepositoryDDD(gormDB, log)
	ticketTransRepo := repository.NewTicketTransitionRepositoryDDD(gormDB, log)
	sessionTransRepo := repository.NewWorkSessionTransitionRepositoryDDD(gormDB, log)
	ledgerRepo := repository.NewXPLedgerRepositoryDDD(gormDB, log)
	offsetStore := repository.NewTelegramOffsetStore(gormDB, log)

	jwtService := infraauth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpSeconds, cfg.Auth.JWT.RefreshExpSeconds)
	tokenIssuer := infraauth.NewTokenIssuerAdapter(jwtService)
	telegramTokenIssuer := infraauth.NewTelegramTokenIssuerAdapter(jwtService)
	hasher := infraauth.NewBcryptPasswordHasher(0)

	authService := userapp.NewAuthService(userRepo, tokenIssuer, hasher, log)

	botService := infratelegram.NewBotService(cfg.Telegram)
	accessRequestNotifier := interfacebot.NewAccessRequestNotifier(botService)

	createAccessRequestUC := accessrequestapp.NewCreateUseCase(accessRequestRepo, log)
	approveAccessRequestUC := accessrequestapp.NewApproveUseCase(accessRequestRepo, userRepo, permissions, accessRequestNotifier, log)
	rejectAccessRequestUC := accessrequestapp.NewRejectUseCase(accessRequestRepo, accessRequestNotifier, log)
	listAccessRequestUC := accessrequestapp.NewListUseCase(accessRequestRepo)

	categoryUC := inventoryapp.NewCategoryUseCase(categoryRepo)
	itemUC := inventoryapp.NewItemUseCase(itemRepo, categoryRepo)
	partUC := inventoryapp.NewPartUseCase(partRepo, categoryRepo)

	createTicketUC := ticketuc.NewCreateTicketUseCase(ticketRepo, itemRepo, partRepo, ticketTransRepo, txManager, log)
	listTicketsUC := ticketuc.NewListTicketsUseCase(ticketRepo, log)
	getTicketUC := ticketuc.NewGetTicketUseCase(ticketRepo, log)
	reviewApproveUC := ticketuc.NewReviewApproveUseCase(ticketRepo, ticketTransRepo, txManager, log)
	assignTicketUC := ticketuc.NewAssignTicketUseCase(ticketRepo, userRepo, ticketTransRepo, txManager, log)
	startWorkUC := ticketuc.NewStartWorkUseCase(ticketRepo, sessionRepo, ticketTransRepo, sessionTransRepo, txManager, log)
	toWaitingQCUC := ticketuc.NewToWaitingQCUseCase(ticketRepo, sessionRepo, ticketTransRepo, txManager, log)
	qcPassUC := ticketuc.NewQCPassUseCase(ticketRepo, sessionRepo, itemRepo, ticketTransRepo, ledgerRepo, cfg.XP, txManager, log)
	qcFailUC := ticketuc.NewQCFailUseCase(ticketRepo, ticketTransRepo, txManager, log)
	manualMetricsUC := ticketuc.NewManualMetricsUseCase(ticketRepo, ticketTransRepo, txManager, log)
	listTransitionsUC := ticketuc.NewListTicketTransitionsUseCase(ticketTransRepo, log)
	listSessionsUC := ticketuc.NewListWorkSessionsUseCase(sessionRepo, log)

	pauseSessionUC := worksessionuc.NewPauseSessionUseCase(sessionRepo, sessionTransRepo, txManager, log)
	resumeSessionUC := worksessionuc.NewResumeSessionUseCase(sessionRepo, sessionTransRepo, txManager, log)
	stopSessionUC := worksessionuc.NewStopSessionUseCase(sessionRepo, ticketRepo, sessionTransRepo, txManager, log)

	xpListUC := xpledgerapp.NewListUseCase(ledgerRepo)
	xpSummaryUC := xpledgerapp.NewSummaryUseCase(ledgerRepo)

	replayGuard, err := newReplayGuard(cfg)
	if err != nil {
		return nil, err
	}
	verifierCfg := telegramverify.Config{
		MaxAge:    time.Duration(cfg.Telegram.TMAMaxAgeSeconds) * time.Second,
		ReplayTTL: time.Duration(cfg.Telegram.TMAReplayTTLSeconds) * time.Second,
	}
	telegramVerifier := telegramverify.NewVerifier(cfg.Telegram.BotToken, verifierCfg, replayGuard)
	telegramLoginUC := apptelegram.NewLoginUseCase(telegramVerifier, userRepo, telegramTokenIssuer, log)

	botSender := interfacebot.NewSender(botService)
	dispatcher := apptelegram.NewDispatcher(apptelegram.Deps{
		UserRepo:    userRepo,
		Permissions: permissions,
		Bot:         botSender,
		Log:         log,

		Items:      itemUC,
		Parts:      partUC,
		Categories: categoryUC,

		CreateTicket:  createTicketUC,
		ListTickets:   listTicketsUC,
		GetTicket:     getTicketUC,
		ReviewApprove: reviewApproveUC,
		AssignTicket:  assignTicketUC,
		ManualMetrics: manualMetricsUC,
		StartWork:     startWorkUC,
		ToWaitingQC:   toWaitingQCUC,
		QCPass:        qcPassUC,
		QCFail:        qcFailUC,

		PauseSession:  pauseSessionUC,
		ResumeSession: resumeSessionUC,
		StopSession:   stopSessionUC,

		XPList: xpListUC,
	})
	botHandler := interfacebot.NewHandler(dispatcher)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimitBackend, err := newRateLimitBackend(cfg)
	if err != nil {
		return nil, err
	}
	rateLimiter := middleware.NewRateLimiter(rateLimitBackend, 60, time.Minute, log)

	ticketHandler := handlers.NewTicketHandler(
		createTicketUC, listTicketsUC, getTicketUC, reviewApproveUC, assignTicketUC, startWorkUC,
		pauseSessionUC, resumeSessionUC, stopSessionUC, toWaitingQCUC, qcPassUC, qcFailUC, manualMetricsUC,
		listTransitionsUC, listSessionsUC, permissions, log,
	)
	accessRequestHandler := handlers.NewAccessRequestHandler(createAccessRequestUC, approveAccessRequestUC, rejectAccessRequestUC, listAccessRequestUC, permissions)
	inventoryHandler := handlers.NewInventoryHandler(categoryUC, itemUC, partUC)
	xpLedgerHandler := handlers.NewXPLedgerHandler(xpListUC, xpSummaryUC, permissions)
	authHandler := handlers.NewAuthHandler(authService, telegramLoginUC)
	healthHandler := handlers.NewHealthHandler()

	routerHandlers := &httpRouter.Handlers{
		Ticket:        ticketHandler,
		AccessRequest: accessRequestHandler,
		Inventory:     inventoryHandler,
		XPLedger:      xpLedgerHandler,
		Auth:          authHandler,
		Health:        healthHandler,
	}
	if cfg.Telegram.Mode == "webhook" {
		routerHandlers.BotWebhook = interfacebot.NewWebhookHandler(botHandler, cfg.Telegram.WebhookSecret, log)
		routerHandlers.BotWebhookPath = cfg.Telegram.WebhookPath
	}

	router := httpRouter.NewRouter(routerHandlers, &httpRouter.Middleware{Auth: authMiddleware, RateLimiter: rateLimiter}, log)
	router.SetupRoutes()

	return &Container{
		Config:        cfg,
		Log:           log,
		DB:            gormDB,
		Router:        router,
		BotDispatcher: dispatcher,
		BotHandler:    botHandler,
		BotService:    botService,
		Enforcer:      enforcer,
		offsetStore:   offsetStore,
	}, nil
}

// PollingService builds the long-poll transport for cfg.Telegram.Mode ==
// "polling" deployments (spec.md §5's single-instance default).
func (c *Container) PollingService() *infratelegram.PollingService {
	return infratelegram.NewPollingService(c.BotService, c.BotHandler, c.Log, c.offsetStore)
}

func newReplayGuard(cfg *config.Config) (telegramverify.ReplayGuard, error) {
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Redis)
		return cache.NewRedisReplayGuard(client), nil
	}
	guard, err := cache.NewLRUReplayGuard(10000)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-process replay guard: %w", err)
	}
	return guard, nil
}

func newRateLimitBackend(cfg *config.Config) (middleware.RateLimitBackend, error) {
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Redis)
		return middleware.NewRedisRateLimitBackend(client), nil
	}
	return middleware.NewInProcessRateLimitBackend(), nil
}
