package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/auth"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/community"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/content"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/game"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/profile"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/quiz"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/status"
	"github.com/SocialShift/Knowledge-Backend/internal/metrics"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Status      *status.StatusHandler
	Auth        *auth.AuthHandler
	Profile     *profile.ProfileHandler
	Leaderboard *leaderboard.LeaderboardHandler
	Content     *content.ContentHandler
	Quiz        *quiz.QuizHandler
	Game        *game.GameHandler
	Community   *community.CommunityHandler

	Authenticator *middleware.AuthMiddlewareProvider
	Streak        gin.HandlerFunc
	Metrics       *metrics.Metrics
}

func InitRoutes(l logger.Log, cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.Metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	r.GET("/status", h.Status.Status)
	r.GET("/status/ready", h.Status.Ready)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware()
	authed := []gin.HandlerFunc{h.Authenticator.AuthMiddleware, h.Streak}
	admin := append(authed[:len(authed):len(authed)], middleware.RequireAdmin())

	api := r.Group("/api", middleware.LoggingMiddleware(l))

	authRoutes(api.Group("/auth"), h, limiter, authed)
	contentRoutes(api, h, authed, admin)

	g := api.Group("/game", authed...)
	{
		g.GET("/questions", h.Game.Questions)
		g.GET("/questions/:question_id", h.Game.Question)
		g.POST("/attempt", h.Game.Attempt)
		g.GET("/attempts", h.Game.Attempts)

		ga := g.Group("", middleware.RequireAdmin())
		ga.POST("/questions", h.Game.CreateQuestion)
		ga.POST("/questions/bulk", h.Game.CreateQuestions)
		ga.PATCH("/questions/:question_id", h.Game.UpdateQuestion)
		ga.DELETE("/questions/:question_id", h.Game.DeleteQuestion)
	}

	communityRoutes(api.Group("/community", authed...), h)
	return r
}

func authRoutes(a *gin.RouterGroup, h Handlers, limiter gin.HandlerFunc, authed []gin.HandlerFunc) {
	a.POST("/create-user", limiter, h.Auth.Register)
	a.POST("/verify-email", limiter, h.Auth.VerifyEmail)
	a.POST("/resend-verification", limiter, h.Auth.ResendVerification)
	a.POST("/login", limiter, h.Auth.Login)
	a.POST("/refresh", h.Auth.Refresh)

	me := a.Group("", authed...)
	{
		me.GET("/verification-status", h.Auth.VerificationStatus)
		me.POST("/logout", h.Auth.Logout)
		me.DELETE("/delete-user", h.Auth.DeleteUser)
		me.PATCH("/profile/update/user-email", h.Auth.ChangeEmail)
		me.POST("/change-password", h.Auth.ChangePassword)

		me.PATCH("/profile/update", h.Profile.UpdateProfile)
		me.GET("/user/me", h.Profile.Me)
		me.GET("/user/streak", h.Profile.Streak)
		me.GET("/user/:user_id", h.Profile.UserProfile)
		me.GET("/notifications", h.Profile.Notifications)
		me.GET("/badges", h.Profile.Badges)
		me.POST("/create-feedback", h.Profile.CreateFeedback)

		me.POST("/follow", h.Profile.Follow)
		me.DELETE("/unfollow/:user_id", h.Profile.Unfollow)
		me.GET("/followers/:user_id", h.Profile.Followers)
		me.GET("/following/:user_id", h.Profile.Following)
		me.GET("/search", h.Profile.SearchUsers)
	}
}

func contentRoutes(api *gin.RouterGroup, h Handlers, authed, admin []gin.HandlerFunc) {
	u := api.Group("", authed...)
	{
		u.GET("/leaderboard", h.Leaderboard.Leaderboard)
		u.GET("/user/rank", h.Leaderboard.Rank)
		u.GET("/user/points", h.Leaderboard.Points)

		u.GET("/search", h.Content.Search)

		u.GET("/list/characters", h.Content.Characters)
		u.GET("/character/:character_id", h.Content.Character)

		u.GET("/list/timelines", h.Content.Timelines)
		u.POST("/timelines/filter", h.Content.FilterTimelines)
		u.GET("/timeline/:timeline_id", h.Content.Timeline)
		u.GET("/timeline/:timeline_id/stories", h.Content.TimelineStories)
		u.POST("/timeline/:timeline_id/bookmark", h.Content.ToggleBookmark)
		u.GET("/timeline/:timeline_id/bookmarked", h.Content.IsBookmarked)
		u.GET("/user/bookmarks", h.Content.Bookmarks)

		u.GET("/list/stories", h.Content.Stories)
		u.GET("/story/:story_id", h.Content.Story)
		u.POST("/story/:story_id/like", h.Content.ToggleLike)
		u.GET("/story/:story_id/liked", h.Content.IsLiked)

		u.GET("/onthisday", h.Content.OnThisDayList)
		u.GET("/onthisday/today", h.Content.OnThisDayToday)
		u.GET("/onthisday/date/:date", h.Content.OnThisDayByDate)

		u.GET("/story/:story_id/quiz", h.Quiz.StoryQuiz)
		u.GET("/quiz/:quiz_id", h.Quiz.Quiz)
		u.GET("/list/quizzes", h.Quiz.Quizzes)
		u.POST("/quiz/submit", h.Quiz.Submit)
		u.GET("/user/quiz-history", h.Quiz.History)
	}

	a := api.Group("", admin...)
	{
		a.POST("/character/create", h.Content.CreateCharacter)
		a.PATCH("/character/update/:character_id", h.Content.UpdateCharacter)
		a.DELETE("/character/:character_id", h.Content.DeleteCharacter)

		a.POST("/timeline/create", h.Content.CreateTimeline)
		a.PATCH("/timeline/update/:timeline_id", h.Content.UpdateTimeline)
		a.DELETE("/timeline/:timeline_id", h.Content.DeleteTimeline)

		a.POST("/story/create", h.Content.CreateStory)
		a.PATCH("/story/update/:story_id", h.Content.UpdateStory)
		a.DELETE("/story/delete/:story_id", h.Content.DeleteStory)

		a.POST("/onthisday", h.Content.CreateOnThisDay)
		a.DELETE("/onthisday/:event_id", h.Content.DeleteOnThisDay)

		a.POST("/story/:story_id/quiz/create", h.Quiz.CreateQuiz)
		a.PATCH("/quiz/:quiz_id", h.Quiz.UpdateQuiz)
		a.DELETE("/quiz/:quiz_id", h.Quiz.DeleteQuiz)
	}
}

func communityRoutes(c *gin.RouterGroup, h Handlers) {
	ch := h.Community

	c.POST("", ch.CreateCommunity)
	c.GET("", ch.Communities)
	c.GET("/my-communities", ch.MyCommunities)
	c.GET("/:community_id", ch.Community)
	c.PUT("/:community_id", ch.UpdateCommunity)
	c.DELETE("/:community_id", ch.DeleteCommunity)
	c.POST("/:community_id/join", ch.Join)
	c.DELETE("/:community_id/leave", ch.Leave)
	c.GET("/:community_id/members", ch.Members)
	c.GET("/:community_id/membership-status", ch.MembershipStatus)

	c.POST("/post", ch.CreatePost)
	c.GET("/post", ch.Posts)
	c.POST("/post/vote", ch.VotePost)
	c.GET("/post/:post_id", ch.Post)
	c.PUT("/post/:post_id", ch.UpdatePost)
	c.DELETE("/post/:post_id", ch.DeletePost)
	c.GET("/post/:post_id/comments", ch.Comments)

	c.POST("/comment", ch.CreateComment)
	c.POST("/comment/vote", ch.VoteComment)
	c.PUT("/comment/:comment_id", ch.UpdateComment)
	c.DELETE("/comment/:comment_id", ch.DeleteComment)

	c.POST("/report", ch.CreateReport)
	c.GET("/reports/my", ch.MyReports)
	c.GET("/reports/reasons", ch.Reasons)

	admin := c.Group("", middleware.RequireAdmin())
	admin.GET("/reports", ch.Reports)
	admin.PUT("/reports/:report_id", ch.UpdateReport)
}
