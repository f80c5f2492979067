package pkg

import (
	"TutorPlanner/internal/auth"
	"TutorPlanner/internal/config"
	"TutorPlanner/internal/lesson"
	"TutorPlanner/internal/notification"
	"TutorPlanner/internal/student"
	"TutorPlanner/pkg/middleware"
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(config.NewTelegramBot),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewAuthService),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(student.NewStudentRepository),
	fx.Provide(student.NewStudentService),
	fx.Provide(student.NewStudentHandler),
	fx.Provide(lesson.NewLessonRepository),
	fx.Provide(lesson.NewLessonService),
	fx.Provide(lesson.NewLessonHandler),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(notification.NewDelivery),
	fx.Provide(notification.NewNotificationService),
	fx.Provide(notification.NewNotificationScheduler),
	fx.Provide(notification.NewNotificationHandler),
	fx.Invoke(EnsureIndexes),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(func(lc fx.Lifecycle, s *notification.NotificationScheduler) {
		s.StartScheduler(lc)
	}))

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	port := ":8080"
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// EnsureIndexes creates the unique indexes the app relies on, most
// importantly the notification dedupe index.
func EnsureIndexes(db *mongo.Database) {
	config.UniqueEmailIndex(db.Collection("users"))
	config.DedupeKeyIndex(db.Collection("notifications"))
	config.UniqueUserIndex(db.Collection("notification_settings"))
}

func RegisterRoutes(e *echo.Echo,
	authHandler *auth.AuthHandler,
	studentHandler *student.StudentHandler,
	lessonHandler *lesson.LessonHandler,
	notificationHandler *notification.NotificationHandler) {

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/verify-email", authHandler.VerifyEmail)
	e.POST("/reset-password", authHandler.ResetPassword)

	// trigger endpoint: shared secret for the global batch, bearer token for
	// a single-user self-check
	e.GET("/notifications/run", notificationHandler.Run)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)
	protected.Use(middleware.CasbinMiddleware)

	protected.GET("/profile", authHandler.Profile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	protected.GET("/students", studentHandler.ListStudents)
	protected.POST("/students", studentHandler.CreateStudent)
	protected.PUT("/students/:id", studentHandler.UpdateStudent)
	protected.DELETE("/students/:id", studentHandler.DeleteStudent)

	protected.GET("/groups", studentHandler.ListGroups)
	protected.POST("/groups", studentHandler.CreateGroup)
	protected.PUT("/groups/:id", studentHandler.UpdateGroup)
	protected.DELETE("/groups/:id", studentHandler.DeleteGroup)

	protected.GET("/lessons", lessonHandler.ListLessons)
	protected.POST("/lessons", lessonHandler.CreateLesson)
	protected.POST("/lessons/:id/cancel", lessonHandler.CancelLesson)
	protected.POST("/lessons/:id/paid", lessonHandler.MarkPaid)
	protected.DELETE("/lessons/:id", lessonHandler.DeleteLesson)

	protected.GET("/notifications", notificationHandler.ListNotifications)
	protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
	protected.GET("/notifications/settings", notificationHandler.GetSettings)
	protected.PUT("/notifications/settings", notificationHandler.UpdateSettings)
}
