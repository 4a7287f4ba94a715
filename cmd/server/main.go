package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/config"
	"github.com/iliyamo/university-timetable/internal/database"
	"github.com/iliyamo/university-timetable/internal/handler"
	"github.com/iliyamo/university-timetable/internal/middleware"
	"github.com/iliyamo/university-timetable/internal/notify"
	"github.com/iliyamo/university-timetable/internal/queue"
	"github.com/iliyamo/university-timetable/internal/repository"
	"github.com/iliyamo/university-timetable/internal/router"
	"github.com/iliyamo/university-timetable/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	courses := repository.NewCourseRepo(db)
	groups := repository.NewGroupRepo(db)
	lecturers := repository.NewLecturerRepo(db)
	students := repository.NewStudentRepo(db)
	lessons := repository.NewLessonRepo(db)
	notifications := repository.NewNotificationRepo(db)
	reads := repository.NewNotificationReadRepo(db)

	notifier := notify.NewNotifier(notifications)
	lessonSvc := service.NewLessonService(lessons, rooms, courses, groups, lecturers, notifier)

	authH := handler.NewAuthHandler(cfg, users, tokens, lecturers, students, groups)
	catalogH := handler.NewCatalogHandler(rooms, courses, groups, lecturers, students)
	lessonH := handler.NewLessonHandler(lessonSvc, lessons)
	notificationH := handler.NewNotificationHandler(notifications, reads)

	actorMW := middleware.ResolveActor(lecturers, students)
	catalogCacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	// Lesson responses differ per caller, so their cache keys must include
	// the authenticated subject.
	lessonCacheCfg := config.LoadCacheConfig()
	lessonCacheCfg.KeyStrategy = "method_route_query_user"
	lessonCacheMW := middleware.NewRedisCache(lessonCacheCfg, rdb)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, actorMW)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, catalogCacheMW)
	router.RegisterLessons(e, lessonH, cfg.JWTSecret, actorMW, lessonCacheMW)
	router.RegisterNotifications(e, notificationH, cfg.JWTSecret, actorMW)

	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
