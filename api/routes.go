package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes mounts the read-only site content plus the contact form
// and the auth endpoints, which sit behind the rate limiter
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, stores Stores, limiter *ipRateLimiter) {
	// Content
	r.Get("/content/services", handlers.serviceHandler.list(listAll(stores.Services)))
	r.Get("/content/services/{id}", handlers.serviceHandler.get())
	r.Get("/content/clients", handlers.clientHandler.list(listClients(stores.Clients)))
	r.Get("/content/projects", handlers.projectHandler.listProjects(true))
	r.Get("/content/projects/{id}", handlers.projectHandler.getProject(true))

	r.Get("/team", handlers.teamHandler.listMembers())
	r.Get("/team/{slug}", handlers.teamHandler.getMemberBySlug())

	r.Get("/locations", handlers.locationHandler.list(listAll(stores.Locations)))
	r.Get("/locations/{id}", handlers.locationHandler.get())

	r.Get("/blog/articles", handlers.blogArticleHandler.listArticles(true))
	r.Get("/blog/articles/{slugOrId}", handlers.blogArticleHandler.getPublishedArticle())

	r.Get("/hero-slides", handlers.heroSlideHandler.list(listHeroSlides(stores.HeroSlides, true)))
	r.Get("/impact-stats", handlers.impactStatHandler.list(listAll(stores.ImpactStats)))
	r.Get("/about-content", handlers.aboutHandler.get())
	r.Get("/footer", handlers.footerHandler.get())
	r.Get("/expertise", handlers.expertiseHandler.get())

	// Rate limited
	r.Group(func(r chi.Router) {
		r.Use(limiter.limit)

		r.Post("/contact", handlers.contactHandler.submitContact())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/register", handlers.authHandler.register())
	})
}

// setupAdminRoutes mounts the CMS endpoints; every one needs a valid token
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, stores Stores, authMiddleware authMiddleware) {
	r.Use(authMiddleware.authenticate, readPrimary)

	r.Get("/me", handlers.authHandler.me())

	// Clients
	r.Get("/clients", handlers.clientHandler.list(listClients(stores.Clients)))
	r.Post("/clients", handlers.clientHandler.create())
	r.Get("/clients/{id}", handlers.clientHandler.get())
	r.Patch("/clients/{id}", handlers.clientHandler.update())
	r.Delete("/clients/{id}", handlers.clientHandler.remove())

	// Team
	r.Get("/team", handlers.teamHandler.listMembers())
	r.Post("/team", handlers.teamHandler.createMember())
	r.Get("/team/{id}", handlers.teamHandler.getMember())
	r.Patch("/team/{id}", handlers.teamHandler.updateMember())
	r.Delete("/team/{id}", handlers.teamHandler.deleteMember())
	r.Put("/team/{id}/services", handlers.teamHandler.setMemberServices())

	// Services
	r.Get("/services", handlers.serviceHandler.list(listAll(stores.Services)))
	r.Post("/services", handlers.serviceHandler.create())
	r.Get("/services/{id}", handlers.serviceHandler.get())
	r.Patch("/services/{id}", handlers.serviceHandler.update())
	r.Delete("/services/{id}", handlers.serviceHandler.remove())

	// Projects
	r.Get("/projects", handlers.projectHandler.listProjects(false))
	r.Post("/projects", handlers.projectHandler.createProject())
	r.Get("/projects/{id}", handlers.projectHandler.getProject(false))
	r.Patch("/projects/{id}", handlers.projectHandler.updateProject())
	r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())
	r.Put("/projects/{id}/services", handlers.projectHandler.setProjectServices())

	// Blog
	r.Get("/blog/articles", handlers.blogArticleHandler.listArticles(false))
	r.Post("/blog/articles", handlers.blogArticleHandler.createArticle())
	r.Get("/blog/articles/{id}", handlers.blogArticleHandler.getArticle())
	r.Patch("/blog/articles/{id}", handlers.blogArticleHandler.updateArticle())
	r.Delete("/blog/articles/{id}", handlers.blogArticleHandler.deleteArticle())
	r.Put("/blog/articles/{id}/services", handlers.blogArticleHandler.setArticleServices())
	r.Put("/blog/articles/{id}/projects", handlers.blogArticleHandler.setArticleProjects())
	r.Post("/blog/articles/{id}/services/{serviceID}", handlers.blogArticleHandler.addArticleService())
	r.Delete("/blog/articles/{id}/services/{serviceID}", handlers.blogArticleHandler.removeArticleService())

	// Hero slides
	r.Get("/hero-slides", handlers.heroSlideHandler.list(listHeroSlides(stores.HeroSlides, false)))
	r.Post("/hero-slides", handlers.heroSlideHandler.create())
	r.Patch("/hero-slides/{id}", handlers.heroSlideHandler.update())
	r.Delete("/hero-slides/{id}", handlers.heroSlideHandler.remove())

	// Site content blocks
	r.Get("/about-content", handlers.aboutHandler.get())
	r.Put("/about-content", handlers.aboutHandler.put())
	r.Get("/footer", handlers.footerHandler.get())
	r.Put("/footer", handlers.footerHandler.put())
	r.Get("/expertise", handlers.expertiseHandler.get())
	r.Put("/expertise", handlers.expertiseHandler.put())

	// Impact stats
	r.Get("/impact-stats", handlers.impactStatHandler.list(listAll(stores.ImpactStats)))
	r.Post("/impact-stats", handlers.impactStatHandler.create())
	r.Patch("/impact-stats/{id}", handlers.impactStatHandler.update())
	r.Delete("/impact-stats/{id}", handlers.impactStatHandler.remove())

	// Locations
	r.Get("/locations", handlers.locationHandler.list(listAll(stores.Locations)))
	r.Post("/locations", handlers.locationHandler.create())
	r.Get("/locations/{id}", handlers.locationHandler.get())
	r.Patch("/locations/{id}", handlers.locationHandler.update())
	r.Delete("/locations/{id}", handlers.locationHandler.remove())

	// Contact messages
	r.Get("/contact-messages", handlers.contactHandler.listMessages())
	r.Patch("/contact-messages/{id}/read", handlers.contactHandler.markRead())
	r.Delete("/contact-messages/{id}", handlers.contactHandler.deleteMessage())
}

