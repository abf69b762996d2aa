package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/kasetfair/booth-api/docs"
	v1 "github.com/kasetfair/booth-api/internal/api/handler/v1"
	"github.com/kasetfair/booth-api/internal/api/middleware"
	"github.com/kasetfair/booth-api/internal/config"
	"github.com/kasetfair/booth-api/internal/repository"
	"github.com/kasetfair/booth-api/internal/repository/dao"
	"github.com/kasetfair/booth-api/internal/service"
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

	boothHandler := s.initBoothHandler(db)
	lotteryHandler, assignmentHandler := s.initAllocationHandlers(db)
	s.MountHandlers(boothHandler, lotteryHandler, assignmentHandler)

	return s
}

func (s *Server) initBoothHandler(db *gorm.DB) *v1.BoothHandler {
	boothDAO := dao.NewBoothDAO(db)
	repo := repository.NewBoothRepository(boothDAO)
	svc := service.NewBoothService(repo)
	handler := v1.NewBoothHandler(svc)

	return handler
}

// initAllocationHandlers builds the lottery and assignment handlers together:
// they share the store and assignment repositories, and the lottery service
// must be a singleton because it owns the in-memory draw pool.
func (s *Server) initAllocationHandlers(db *gorm.DB) (*v1.LotteryHandler, *v1.AssignmentHandler) {
	storeRepo := repository.NewStoreRepository(dao.NewStoreDAO(db))
	assignmentRepo := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))

	lotterySvc := service.NewLotteryService(storeRepo, assignmentRepo)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, storeRepo)

	return v1.NewLotteryHandler(lotterySvc), v1.NewAssignmentHandler(assignmentSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(boothHandler *v1.BoothHandler, lotteryHandler *v1.LotteryHandler, assignmentHandler *v1.AssignmentHandler) {
	const basePath = "/api/v1"

	booths := s.Router.Group(basePath)
	{
		booths.GET("/booths", boothHandler.HandleListBooths)
		booths.GET("/booths/next", boothHandler.HandleNextAvailableBooth)
		booths.GET("/booths/stats", boothHandler.HandleZoneStats)
		booths.POST("/booths/import", boothHandler.HandleImportBooths)
		booths.POST("/booths/reorder", boothHandler.HandleReorderBooths)
		booths.POST("/booths/disable", boothHandler.HandleDisableBooths)
		booths.POST("/booths/enable", boothHandler.HandleEnableBooths)
	}

	lottery := s.Router.Group(basePath)
	{
		lottery.GET("/lottery/pool", lotteryHandler.HandleGetPool)
		lottery.POST("/lottery/pool", lotteryHandler.HandleLoadPool)
		lottery.POST("/lottery/draw", lotteryHandler.HandleDraw)
	}

	assignments := s.Router.Group(basePath)
	{
		assignments.GET("/assignments", assignmentHandler.HandleListAssignments)
		assignments.POST("/assignments/lottery", assignmentHandler.HandleAssignFromDraw)
		assignments.POST("/assignments/manual", assignmentHandler.HandleAssignManually)
		assignments.POST("/assignments/:assignmentID/confirm", assignmentHandler.HandleConfirmAssignment)
		assignments.POST("/assignments/:assignmentID/forfeit", assignmentHandler.HandleForfeitAssignment)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Kaset Fair Booth Allocation API"
	docs.SwaggerInfo.Description = "Booth import, priority ordering, lottery draws and assignment confirmation."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
