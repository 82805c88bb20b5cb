package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/dskf/bookraffle-api/docs"
	v1 "github.com/dskf/bookraffle-api/internal/api/handler/v1"
	"github.com/dskf/bookraffle-api/internal/api/middleware"
	"github.com/dskf/bookraffle-api/internal/config"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/pkg/filestore"
	"github.com/dskf/bookraffle-api/internal/repository"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
	"github.com/dskf/bookraffle-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	files := filestore.New(conf.API.UploadDir)
	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(userSvc, files)
	roleHandler := s.initRoleHandler(db)
	authorHandler := s.initAuthorHandler(db)
	categoryHandler := s.initCategoryHandler(db)
	bookHandler := s.initBookHandler(db, files)

	// The notification hub doubles as the stream publisher that the
	// raffle pipeline pushes winner notifications through.
	notificationHandler := s.initNotificationHandler(db, userSvc)
	go notificationHandler.Run()

	raffleHandler, ticketHandler := s.initRaffleHandlers(db, userSvc, notificationHandler)

	s.MountHandlers(
		authHandler,
		userHandler,
		roleHandler,
		authorHandler,
		categoryHandler,
		bookHandler,
		raffleHandler,
		ticketHandler,
		notificationHandler,
		userSvc,
	)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	roleRepo := repository.NewRoleRepository(dao.NewRoleDAO(db))
	svc := service.NewAuthService(userRepo, roleRepo, s.Config.API.AdministratorEmail)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initRoleHandler(db *gorm.DB) *v1.RoleHandler {
	repo := repository.NewRoleRepository(dao.NewRoleDAO(db))
	svc := service.NewRoleService(repo)
	handler := v1.NewRoleHandler(svc)

	return handler
}

func (s *Server) initAuthorHandler(db *gorm.DB) *v1.AuthorHandler {
	repo := repository.NewAuthorRepository(dao.NewAuthorDAO(db))
	svc := service.NewAuthorService(repo)
	handler := v1.NewAuthorHandler(svc)

	return handler
}

func (s *Server) initCategoryHandler(db *gorm.DB) *v1.CategoryHandler {
	repo := repository.NewCategoryRepository(dao.NewCategoryDAO(db))
	svc := service.NewCategoryService(repo)
	handler := v1.NewCategoryHandler(svc)

	return handler
}

func (s *Server) initBookHandler(db *gorm.DB, files *filestore.Store) *v1.BookHandler {
	repo := repository.NewBookRepository(dao.NewBookDAO(db))
	svc := service.NewBookService(repo)
	handler := v1.NewBookHandler(svc, files)

	return handler
}

func (s *Server) initNotificationHandler(db *gorm.DB, userSvc *service.UserService) *v1.NotificationHandler {
	repo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	// The handler only reads through this service instance. The raffle
	// pipeline gets its own instance with the handler wired in as the
	// stream, which breaks the construction cycle between the two.
	svc := service.NewNotificationService(repo, nil)
	handler := v1.NewNotificationHandler(svc, userSvc)

	return handler
}

func (s *Server) initRaffleHandlers(db *gorm.DB, userSvc *service.UserService, stream service.StreamPublisher) (*v1.RaffleHandler, *v1.TicketHandler) {
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	bookRepo := repository.NewBookRepository(dao.NewBookDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))
	notifier := service.NewNotificationService(notificationRepo, stream)

	svc := service.NewRaffleService(raffleRepo, bookRepo, notifier)
	reports := service.NewReportService(raffleRepo, userRepo, bookRepo)

	return v1.NewRaffleHandler(svc, userSvc, reports), v1.NewTicketHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	roleHandler *v1.RoleHandler,
	authorHandler *v1.AuthorHandler,
	categoryHandler *v1.CategoryHandler,
	bookHandler *v1.BookHandler,
	raffleHandler *v1.RaffleHandler,
	ticketHandler *v1.TicketHandler,
	notificationHandler *v1.NotificationHandler,
	userSvc *service.UserService,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()
	gate := middleware.NewPermissionGate(userSvc)
	requireModerate := gate.Require(domain.PermissionModerate)
	requireAdmin := gate.Require(domain.PermissionAdmin)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/users/me/tickets", userHandler.HandleGetUserTickets)
		users.GET("/users/me/tasks", userHandler.HandleGetUserTasks)
		users.PUT("/users/me", userHandler.HandleUpdateUser)
		users.POST("/users/me/image", userHandler.HandleUploadProfileImage)
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.GET("/users", userHandler.HandleListUsers)
		users.GET("/users/:userID/tickets", requireAdmin, userHandler.HandleGetUserTicketsByID)
		users.GET("/users/:userID/tasks", requireAdmin, userHandler.HandleGetUserTasksByID)
		users.GET("/users/:userID/notifications", requireAdmin, notificationHandler.HandleListUserNotifications)
		users.DELETE("/users/:userID", requireAdmin, userHandler.HandleDeleteUser)
	}

	roles := s.Router.Group(basePath, verifyJWT, requireAdmin)
	{
		roles.POST("/roles", roleHandler.HandleCreateRole)
		roles.GET("/roles", roleHandler.HandleListRoles)
		roles.GET("/roles/:roleID", roleHandler.HandleGetRole)
		roles.GET("/roles/:roleID/users", roleHandler.HandleGetRoleUsers)
		roles.PUT("/roles/:roleID", roleHandler.HandleUpdateRole)
		roles.POST("/roles/:roleID/permissions", roleHandler.HandleAddPermission)
		roles.DELETE("/roles/:roleID/permissions", roleHandler.HandleRemovePermission)
		roles.DELETE("/roles/:roleID", roleHandler.HandleDeleteRole)
	}

	catalog := s.Router.Group(basePath, verifyJWT)
	{
		catalog.GET("/books", bookHandler.HandleListBooks)
		catalog.GET("/books/search", bookHandler.HandleListBooks)
		catalog.GET("/books/:bookID", bookHandler.HandleGetBook)
		catalog.GET("/books/:bookID/authors", bookHandler.HandleGetBookAuthors)
		catalog.GET("/books/:bookID/categories", bookHandler.HandleGetBookCategories)
		catalog.POST("/books", requireModerate, bookHandler.HandleCreateBook)
		catalog.PUT("/books/:bookID", requireModerate, bookHandler.HandleUpdateBook)
		catalog.POST("/books/:bookID/image", requireModerate, bookHandler.HandleUploadCoverImage)
		catalog.DELETE("/books/:bookID", requireModerate, bookHandler.HandleDeleteBook)

		catalog.GET("/authors", authorHandler.HandleListAuthors)
		catalog.GET("/authors/:authorID", authorHandler.HandleGetAuthor)
		catalog.GET("/authors/:authorID/books", authorHandler.HandleGetAuthorBooks)
		catalog.POST("/authors", requireModerate, authorHandler.HandleCreateAuthor)
		catalog.PUT("/authors/:authorID", requireModerate, authorHandler.HandleUpdateAuthor)
		catalog.DELETE("/authors/:authorID", requireModerate, authorHandler.HandleDeleteAuthor)

		catalog.GET("/categories", categoryHandler.HandleListCategories)
		catalog.GET("/categories/:categoryID", categoryHandler.HandleGetCategory)
		catalog.GET("/categories/:categoryID/books", categoryHandler.HandleGetCategoryBooks)
		catalog.POST("/categories", requireModerate, categoryHandler.HandleCreateCategory)
		catalog.PUT("/categories/:categoryID", requireModerate, categoryHandler.HandleUpdateCategory)
		catalog.DELETE("/categories/:categoryID", requireModerate, categoryHandler.HandleDeleteCategory)
	}

	raffles := s.Router.Group(basePath, verifyJWT)
	{
		raffles.GET("/raffles", raffleHandler.HandleListRaffles)
		raffles.GET("/raffles/:raffleID", raffleHandler.HandleGetRaffle)
		raffles.GET("/raffles/:raffleID/tickets", raffleHandler.HandleGetRaffleTickets)
		raffles.POST("/raffles/:raffleID/tickets", raffleHandler.HandlePurchaseTicket)
		raffles.POST("/raffles", requireModerate, raffleHandler.HandleOpenRaffle)
		raffles.PUT("/raffles/:raffleID", requireModerate, raffleHandler.HandleUpdateRaffle)
		raffles.POST("/raffles/:raffleID/activate", requireModerate, raffleHandler.HandleActivateRaffle)
		raffles.POST("/raffles/:raffleID/deactivate", requireModerate, raffleHandler.HandleDeactivateRaffle)
		raffles.POST("/raffles/:raffleID/close", requireModerate, raffleHandler.HandleCloseRaffle)
		raffles.GET("/raffles/:raffleID/report", requireModerate, raffleHandler.HandleGetRaffleReport)

		raffles.GET("/tickets/:ticketID", ticketHandler.HandleGetTicket)
		raffles.POST("/tickets/:ticketID/cancel", ticketHandler.HandleCancelTicket)
		raffles.GET("/tickets/:ticketID/validate", ticketHandler.HandleValidateTicket)
	}

	notifications := s.Router.Group(basePath, verifyJWT)
	{
		notifications.GET("/notifications", notificationHandler.HandleListNotifications)
		notifications.GET("/notifications/stream", notificationHandler.HandleStream)
		notifications.GET("/notifications/:notificationID", notificationHandler.HandleGetNotification)
		notifications.POST("/notifications/:notificationID/read", notificationHandler.HandleMarkRead)
		notifications.DELETE("/notifications/:notificationID", notificationHandler.HandleDeleteNotification)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Book Raffle API"
	docs.SwaggerInfo.Description = "REST API for running book raffles."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
