package wire

import (
	"Inkcard/internal/api"
	"Inkcard/internal/api/handler"
	"Inkcard/internal/job"
	"Inkcard/internal/pkg/cron"
	"Inkcard/internal/pkg/minio"
	"Inkcard/internal/repository"
	"Inkcard/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	Mongo   *mongodrv.Database
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(mongoDB)
	postRepo := repository.NewPostRepo(mongoDB)
	commentRepo := repository.NewCommentRepo(mongoDB)
	notificationRepo := repository.NewNotificationRepo(mongoDB)
	categoryRepo := repository.NewCategoryRepo(mongoDB)
	tagRepo := repository.NewTagRepo(mongoDB)
	reportRepo := repository.NewReportRepo(mongoDB)
	badgeLogRepo := repository.NewBadgeLogRepo(db)

	store := minio.NewStore()

	notificationService := service.NewNotificationService(notificationRepo)
	taxonomyService := service.NewTaxonomyService(categoryRepo, tagRepo, postRepo, store)
	userService := service.NewUserService(userRepo, store)
	userFollowService := service.NewUserFollowService(userRepo, notificationService)
	postService := service.NewPostService(postRepo, userRepo, commentRepo, taxonomyService, notificationService, store)
	postActionService := service.NewPostActionService(postRepo, userRepo, commentRepo, notificationService)
	commentService := service.NewCommentService(commentRepo, postRepo, notificationService)
	reportService := service.NewReportService(reportRepo, userRepo, postRepo)
	adminService := service.NewAdminService(userRepo, postRepo, commentRepo, badgeLogRepo, postService, notificationService, taxonomyService, store)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService),
		PostHandler:         handler.NewPostHandler(postService),
		PostActionHandler:   handler.NewPostActionHandler(postActionService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		TaxonomyHandler:     handler.NewTaxonomyHandler(taxonomyService),
		ReportHandler:       handler.NewReportHandler(reportService),
		AdminHandler:        handler.NewAdminHandler(adminService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewTaxonomyReconcileJob(taxonomyService))

	return &ApplicationContainer{
		Router:  router,
		Mongo:   mongoDB,
		CronMgr: cronMgr,
	}, nil
}
