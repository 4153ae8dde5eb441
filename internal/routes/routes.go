package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/handler"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	noteHandler *handler.NoteHandler,
	repositoryHandler *handler.RepositoryHandler,
	friendshipHandler *handler.FriendshipHandler,
	followHandler *handler.FollowHandler,
	noteLikeHandler *handler.LikeHandler,
	repoLikeHandler *handler.LikeHandler,
	commentHandler *handler.CommentHandler,
	messageHandler *handler.MessageHandler,
	notificationHandler *handler.NotificationHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	auth := middleware.JWTAuth(jwtManager)
	optionalAuth := middleware.OptionalJWTAuth(jwtManager)

	// Authentication (no auth required)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.RefreshToken)

	// Users
	users := api.Group("/users")
	users.GET("/me", auth, userHandler.Me)
	users.PUT("/me", auth, userHandler.UpdateProfile)
	users.PUT("/me/password", auth, userHandler.ChangePassword)
	users.DELETE("/me", auth, userHandler.Deactivate)
	users.GET("/search", userHandler.Search)
	users.GET("/:username", userHandler.GetByUsername)

	// Notes
	notes := api.Group("/notes")
	{
		notes.POST("", auth, noteHandler.Create)
		notes.GET("/public", optionalAuth, noteHandler.ListPublic)
		notes.GET("/search", optionalAuth, noteHandler.Search)
		notes.GET("/mine", auth, noteHandler.ListMine)
		notes.GET("/shared", auth, noteHandler.ListSharedWithMe)

		notes.GET("/:id", optionalAuth, noteHandler.Get)
		notes.PUT("/:id", auth, noteHandler.Update)
		notes.DELETE("/:id", auth, noteHandler.Delete)

		notes.POST("/:id/repositories/:repository_id", auth, noteHandler.AddToRepository)
		notes.DELETE("/:id/repositories/:repository_id", auth, noteHandler.RemoveFromRepository)

		notes.GET("/:id/shares", auth, noteHandler.ListShares)
		notes.POST("/:id/shares", auth, noteHandler.Share)
		notes.PUT("/:id/shares", auth, noteHandler.UpdateSharePermission)
		notes.DELETE("/:id/shares/:username", auth, noteHandler.Unshare)

		notes.POST("/:id/like", auth, noteLikeHandler.Like)
		notes.DELETE("/:id/like", auth, noteLikeHandler.Unlike)
		notes.POST("/:id/like/toggle", auth, noteLikeHandler.Toggle)

		notes.GET("/:id/comments", optionalAuth, commentHandler.ListFor(domain.KindNote))
		notes.POST("/:id/comments", auth, commentHandler.AddFor(domain.KindNote))
	}

	// Repositories
	repositories := api.Group("/repositories")
	{
		repositories.POST("", auth, repositoryHandler.Create)
		repositories.GET("/public", optionalAuth, repositoryHandler.ListPublic)
		repositories.GET("/mine", auth, repositoryHandler.ListMine)
		repositories.GET("/shared", auth, repositoryHandler.ListSharedWithMe)

		repositories.GET("/:id", optionalAuth, repositoryHandler.Get)
		repositories.PUT("/:id", auth, repositoryHandler.Update)
		repositories.DELETE("/:id", auth, repositoryHandler.Delete)

		repositories.GET("/:id/notes", optionalAuth, repositoryHandler.ListNotes)

		repositories.GET("/:id/shares", auth, repositoryHandler.ListShares)
		repositories.POST("/:id/shares", auth, repositoryHandler.Share)
		repositories.PUT("/:id/shares", auth, repositoryHandler.UpdateSharePermission)
		repositories.DELETE("/:id/shares/:username", auth, repositoryHandler.Unshare)

		repositories.POST("/:id/follow", auth, followHandler.Follow)
		repositories.DELETE("/:id/follow", auth, followHandler.Unfollow)
		repositories.POST("/:id/follow/toggle", auth, followHandler.Toggle)

		repositories.POST("/:id/like", auth, repoLikeHandler.Like)
		repositories.DELETE("/:id/like", auth, repoLikeHandler.Unlike)
		repositories.POST("/:id/like/toggle", auth, repoLikeHandler.Toggle)

		repositories.GET("/:id/comments", optionalAuth, commentHandler.ListFor(domain.KindRepository))
		repositories.POST("/:id/comments", auth, commentHandler.AddFor(domain.KindRepository))
	}

	// Followed repositories of the current user
	api.GET("/follows", auth, followHandler.ListFollowed)

	// Comments (direct addressing)
	comments := api.Group("/comments", auth)
	comments.PUT("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	// Friends
	friends := api.Group("/friends", auth)
	{
		friends.GET("", friendshipHandler.ListFriends)
		friends.POST("/requests", friendshipHandler.Request)
		friends.GET("/requests/received", friendshipHandler.ListPendingReceived)
		friends.GET("/requests/sent", friendshipHandler.ListPendingSent)
		friends.POST("/requests/:id/accept", friendshipHandler.Accept)
		friends.POST("/requests/:id/reject", friendshipHandler.Reject)
		friends.POST("/toggle/:user_id", friendshipHandler.Toggle)
		friends.POST("/blocks/:user_id", friendshipHandler.Block)
		friends.DELETE("/blocks/:user_id", friendshipHandler.Unblock)
		friends.DELETE("/:user_id", friendshipHandler.Unfriend)
	}

	// Direct messages
	messages := api.Group("/messages", auth)
	{
		messages.POST("", messageHandler.Send)
		messages.GET("/received", messageHandler.ListReceived)
		messages.GET("/sent", messageHandler.ListSent)
		messages.GET("/unread-count", messageHandler.UnreadCount)
		messages.GET("/conversations/:user_id", messageHandler.Conversation)
		messages.PUT("/:id/delivered", messageHandler.MarkDelivered)
		messages.PUT("/:id/read", messageHandler.MarkRead)
		messages.DELETE("/:id", messageHandler.Delete)
	}

	// Notifications
	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}
}
