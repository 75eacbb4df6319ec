package http

import (
	"github.com/gin-gonic/gin"

	appsvc "tickettrack/internal/app"
	"tickettrack/internal/bootstrap"
	"tickettrack/internal/platform/rabbitmq"
	"tickettrack/internal/repository"
	"tickettrack/internal/transport/http/handler"
	"tickettrack/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	ticketRepo := repository.NewTicketRepository(app.DB)
	activityRepo := repository.NewTicketActivityRepository(app.DB)

	var activityPublisher appsvc.ActivityPublisher
	if app.MQConn != nil {
		activityPublisher = rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	}

	authService := appsvc.NewAuthService(userRepo)
	ticketService := appsvc.NewTicketService(ticketRepo, activityRepo, activityPublisher)

	userHandler := handler.NewUserHandler(authService, app.SessionStore, handler.CookieSettings{
		Name:   app.Config.Session.CookieName,
		MaxAge: app.Config.Session.LifetimeSeconds,
		Secure: app.Config.SecureCookies(),
	})
	ticketHandler := handler.NewTicketHandler(ticketService)

	guard := middleware.SessionAuth(app.SessionStore, app.Config.Session.CookieName)

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/logout", userHandler.Logout)
	users.POST("/password/forgot", userHandler.ForgotPassword)
	users.POST("/password/reset", userHandler.ResetPassword)
	users.PUT("/update", guard, userHandler.Update)
	users.GET("/session", guard, userHandler.Session)

	tickets := api.Group("/tickets")
	tickets.Use(guard)
	tickets.GET("", ticketHandler.List)
	tickets.POST("", ticketHandler.Create)
	tickets.PUT("/:id", ticketHandler.Update)
	tickets.DELETE("/:id", ticketHandler.Delete)
	tickets.GET("/:id/activity", ticketHandler.ListActivity)

	return router
}
