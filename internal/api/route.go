package api

import (
	"Inkcard/internal/api/middleware"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			optGroup := userGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("/:user_id", group.UserHandler.GetUserByID)
				optGroup.GET("/username/:username", group.UserHandler.GetUserByUsername)
				optGroup.GET("/:user_id/followers", group.UserFollowHandler.GetFollowers)
				optGroup.GET("/:user_id/following", group.UserFollowHandler.GetFollowing)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetSelfInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateProfile)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
				authGroup.POST("/cover", group.UserHandler.UploadCover)

				authGroup.POST("/:user_id/follow", group.UserFollowHandler.Follow)
				authGroup.DELETE("/:user_id/follow", group.UserFollowHandler.Unfollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			optGroup := postGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("/discover", group.PostHandler.Discover)
				optGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
				optGroup.GET("/user/:user_id", group.PostHandler.GetPostsByUser)
				optGroup.GET("/category/:category", group.PostHandler.GetPostsByCategory)
				optGroup.GET("/tag/:tag", group.PostHandler.GetPostsByTag)
				optGroup.GET("/detail/:post_id/comments", group.CommentHandler.ListComments)
				optGroup.GET("/comments/:comment_id/replies", group.CommentHandler.ListReplies)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.GET("/saved", group.PostHandler.GetSavedPosts)

				// 点赞与收藏
				authGroup.POST("/:post_id/like", group.PostActionHandler.LikePost)
				authGroup.DELETE("/:post_id/like", group.PostActionHandler.UnlikePost)
				authGroup.POST("/:post_id/save", group.PostActionHandler.SavePost)
				authGroup.DELETE("/:post_id/save", group.PostActionHandler.UnsavePost)

				// 评论与回复
				authGroup.POST("/:post_id/comments", group.CommentHandler.AddComment)
				authGroup.DELETE("/:post_id/comments/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:post_id/comments/:comment_id/like", group.PostActionHandler.LikeComment)
				authGroup.DELETE("/:post_id/comments/:comment_id/like", group.PostActionHandler.UnlikeComment)
				authGroup.POST("/:post_id/comments/:comment_id/replies", group.CommentHandler.AddReply)

				authGroup.DELETE("/comments/:comment_id/replies/:reply_id", group.CommentHandler.DeleteReply)
				authGroup.POST("/comments/:comment_id/replies/:reply_id/like", group.PostActionHandler.LikeReply)
				authGroup.DELETE("/comments/:comment_id/replies/:reply_id/like", group.PostActionHandler.UnlikeReply)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("/list", group.NotificationHandler.GetNotificationList)
			notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notifyGroup.POST("/read/:notification_id", group.NotificationHandler.MarkRead)
			notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
		}

		taxonomyGroup := apiGroup.Group("/taxonomy")
		{
			taxonomyGroup.GET("/categories", group.TaxonomyHandler.ListCategories)
			taxonomyGroup.GET("/tags", group.TaxonomyHandler.ListTags)
			taxonomyGroup.GET("/categories/:name/count", group.TaxonomyHandler.GetCategoryPostCount)
			taxonomyGroup.GET("/tags/:name/count", group.TaxonomyHandler.GetTagPostCount)

			adminGroup := taxonomyGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/categories", group.TaxonomyHandler.CreateCategory)
				adminGroup.PUT("/categories/:id", group.TaxonomyHandler.UpdateCategory)
				adminGroup.DELETE("/categories/:id", group.TaxonomyHandler.DeleteCategory)
				adminGroup.POST("/tags", group.TaxonomyHandler.CreateTag)
				adminGroup.PUT("/tags/:id", group.TaxonomyHandler.UpdateTag)
				adminGroup.DELETE("/tags/:id", group.TaxonomyHandler.DeleteTag)
			}
		}

		reportGroup := apiGroup.Group("/reports")
		reportGroup.Use(middleware.AuthMiddleware())
		{
			reportGroup.POST("", group.ReportHandler.Submit)

			adminGroup := reportGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.GET("/list", group.ReportHandler.List)
				adminGroup.PUT("/:report_id/status", group.ReportHandler.UpdateStatus)
			}
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
		{
			adminGroup.GET("/users", group.AdminHandler.ListUsers)
			adminGroup.POST("/users/:user_id/badge", group.AdminHandler.AssignBadge)
			adminGroup.GET("/users/:user_id/badge/history", group.AdminHandler.GetBadgeHistory)
			adminGroup.DELETE("/users/:user_id", group.AdminHandler.DeleteUser)
			adminGroup.POST("/reconcile", group.AdminHandler.ReconcileCounts)
		}
	}

	return r
}
