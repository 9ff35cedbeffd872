package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/api/handlers"
	"crowdfund/internal/metrics"
	"crowdfund/internal/middleware"
	"crowdfund/internal/service"
)

// NewRouter builds the engine with the full middleware chain and all routes.
func NewRouter(services *service.Services) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.TokenAuth(services.Auth),
	)
	SetupRoutes(r, services)
	return r
}

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// Handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	fundraiserHandler := handlers.NewFundraiserHandler(services.Fundraiser)
	pledgeHandler := handlers.NewPledgeHandler(services.Pledge)
	liveHandler := handlers.NewLiveHandler(services.Fundraiser, services.Feed)

	// Unknown paths and methods answer in the same JSON shape as every other error
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method \"" + c.Request.Method + "\" not allowed."})
	})
	r.HandleMethodNotAllowed = true

	// Liveness and Prometheus scrape endpoints
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// Credentials for a token
	r.POST("/api-token-auth/", authHandler.ObtainToken)

	// Reads are public, writes need a token; object-level rules live in
	// the services.
	public := r.Group("/", middleware.AuthenticatedOrReadOnly())
	{
		// Fundraisers
		public.GET("/fundraisers/", fundraiserHandler.ListFundraisers)
		public.POST("/fundraisers/", fundraiserHandler.CreateFundraiser)       // owner is the caller
		public.GET("/fundraisers/:id/", fundraiserHandler.GetFundraiser)       // includes pledges
		public.PUT("/fundraisers/:id/", fundraiserHandler.UpdateFundraiser)    // owner only, partial
		public.DELETE("/fundraisers/:id/", fundraiserHandler.DeleteFundraiser) // owner only
		public.GET("/fundraisers/:id/live/", liveHandler.Subscribe)            // websocket pledge feed

		// Pledges
		public.GET("/pledges/", pledgeHandler.ListPledges)
		public.POST("/pledges/", pledgeHandler.CreatePledge) // supporter is the caller
		public.GET("/pledges/:id/", pledgeHandler.GetPledge)
		public.PUT("/pledges/:id/", pledgeHandler.UpdatePledge)     // supporter edits comment/anonymous
		public.PATCH("/pledges/:id/", pledgeHandler.ModeratePledge) // fundraiser owner hides comment
		public.DELETE("/pledges/:id/", pledgeHandler.ClearComment)  // supporter clears comment

		// Users
		public.GET("/users/", userHandler.ListUsers)
		public.GET("/users/:id/", userHandler.GetUser)
	}

	// Registration is open to anonymous callers.
	r.POST("/users/", userHandler.Register)

	// The caller's own records
	authorized := r.Group("/", middleware.RequireAuth())
	{
		authorized.GET("/users/me/", userHandler.Me)
		authorized.GET("/me/fundraisers/", fundraiserHandler.MyFundraisers)
		authorized.GET("/me/pledges/", pledgeHandler.MyPledges)
	}
}
