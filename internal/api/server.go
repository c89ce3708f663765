package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/guildops/guildops-api/docs"
	v1 "github.com/guildops/guildops-api/internal/api/handler/v1"
	"github.com/guildops/guildops-api/internal/api/middleware"
	"github.com/guildops/guildops-api/internal/config"
	"github.com/guildops/guildops-api/internal/repository"
	"github.com/guildops/guildops-api/internal/repository/dao"
	"github.com/guildops/guildops-api/internal/service"
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

	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(uSvc)
	characterHandler := s.initCharacterHandler(db, uSvc)
	eventHandler := s.initEventHandler(db, uSvc)
	feedHandler := v1.NewFeedHandler(uSvc)
	attendanceHandler := s.initAttendanceHandler(db, uSvc, feedHandler)
	lootHandler := s.initLootHandler(db, uSvc)

	go feedHandler.Run()

	s.MountHandlers(authHandler, userHandler, characterHandler, eventHandler, attendanceHandler, lootHandler, feedHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initCharacterHandler(db *gorm.DB, uSvc v1.UserService) *v1.CharacterHandler {
	characterDAO := dao.NewCharacterDAO(db)
	repo := repository.NewCharacterRepository(characterDAO)
	svc := service.NewRosterService(repo)
	handler := v1.NewCharacterHandler(svc, uSvc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB, uSvc v1.UserService) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initAttendanceHandler(db *gorm.DB, uSvc v1.UserService, feed v1.FeedNotifier) *v1.AttendanceHandler {
	attendanceDAO := dao.NewAttendanceDAO(db)
	repo := repository.NewAttendanceRepository(attendanceDAO)
	svc := service.NewAttendanceService(repo)
	handler := v1.NewAttendanceHandler(svc, uSvc, feed)

	return handler
}

func (s *Server) initLootHandler(db *gorm.DB, uSvc v1.UserService) *v1.LootHandler {
	lootDAO := dao.NewWishDAO(db)
	itemDAO := dao.NewItemDAO(db)
	repo := repository.NewLootRepository(itemDAO, lootDAO)
	svc := service.NewLootService(repo)
	roster := service.NewRosterService(repository.NewCharacterRepository(dao.NewCharacterDAO(db)))
	handler := v1.NewLootHandler(svc, roster, uSvc)

	return handler
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
	characterHandler *v1.CharacterHandler,
	eventHandler *v1.EventHandler,
	attendanceHandler *v1.AttendanceHandler,
	lootHandler *v1.LootHandler,
	feedHandler *v1.FeedHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.GET("/users", userHandler.HandleListUsers)
		authed.PUT("/users/:userID/role", userHandler.HandleChangeRole)

		authed.POST("/characters", characterHandler.HandleCreateCharacter)
		authed.GET("/characters", characterHandler.HandleListCharacters)
		authed.GET("/characters/:characterID", characterHandler.HandleGetCharacter)
		authed.PUT("/characters/:characterID", characterHandler.HandleUpdateCharacter)
		authed.DELETE("/characters/:characterID", characterHandler.HandleDeleteCharacter)
		authed.POST("/characters/:characterID/dkp", characterHandler.HandleAdjustDkp)
		authed.GET("/characters/:characterID/attendances", attendanceHandler.HandleListCharacterAttendances)
		authed.GET("/characters/:characterID/wishes", lootHandler.HandleListCharacterWishes)
		authed.DELETE("/characters/:characterID/wishes/:itemID", lootHandler.HandleDeleteWish)

		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.POST("/events/recurring", eventHandler.HandleCreateRecurringEvent)
		authed.GET("/events", eventHandler.HandleListEvents)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		authed.GET("/events/:eventID/stats", eventHandler.HandleGetEventStats)

		authed.POST("/events/:eventID/attendances", attendanceHandler.HandleRecordAttendance)
		authed.POST("/events/:eventID/attendances/bulk", attendanceHandler.HandleRecordBulkAttendance)
		authed.GET("/events/:eventID/attendances", attendanceHandler.HandleListEventAttendances)
		authed.DELETE("/events/:eventID/attendances/:characterID", attendanceHandler.HandleRemoveAttendance)

		authed.POST("/items", lootHandler.HandleCreateItem)
		authed.GET("/items", lootHandler.HandleListItems)
		authed.GET("/items/:itemID", lootHandler.HandleGetItem)
		authed.PUT("/items/:itemID", lootHandler.HandleUpdateItem)
		authed.DELETE("/items/:itemID", lootHandler.HandleDeleteItem)
		authed.GET("/items/:itemID/wishers", lootHandler.HandleRankWishers)

		authed.POST("/wishes", lootHandler.HandleCreateWish)

		authed.GET("/feed", feedHandler.HandleFeed)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "GuildOps API"
	docs.SwaggerInfo.Description = "Guild operations backend: roster, events, attendance-driven DKP ledger, and loot priority."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
