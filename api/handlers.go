package api

import (
	"time"

	"github.com/rpupo63/consultancy-site-backend/database"
	"github.com/rpupo63/consultancy-site-backend/models"
)

// Stores groups the persistence the handlers need
type Stores struct {
	Users       userStore
	Services    crudStore[models.Service]
	Projects    projectStore
	Articles    blogArticleStore
	Team        teamMemberStore
	Clients     clientStore
	Locations   crudStore[models.Location]
	HeroSlides  heroSlideStore
	ImpactStats crudStore[models.ImpactStat]
	Contacts    contactMessageStore
	About       singletonStore[models.AboutContent]
	Footer      singletonStore[models.FooterContent]
	Expertise   singletonStore[models.ExpertiseContent]
}

// StoresFrom wires the gorm repos of database into Stores
func StoresFrom(database database.Database) Stores {
	return Stores{
		Users:       database.UserRepo(),
		Services:    database.ServiceRepo(),
		Projects:    database.ProjectRepo(),
		Articles:    database.BlogArticleRepo(),
		Team:        database.TeamMemberRepo(),
		Clients:     database.ClientRepo(),
		Locations:   database.LocationRepo(),
		HeroSlides:  database.HeroSlideRepo(),
		ImpactStats: database.ImpactStatRepo(),
		Contacts:    database.ContactMessageRepo(),
		About:       database.AboutContentRepo(),
		Footer:      database.FooterContentRepo(),
		Expertise:   database.ExpertiseContentRepo(),
	}
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, tokens tokenIssuer, allowRegistration bool, startedAt time.Time) *routeHandlers {
	stores := deps.Stores

	heroSlides := newResourceHandler("hero slide", itemStore[models.HeroSlide](stores.HeroSlides), deps.Uploader, heroSlideFiles)
	heroSlides.newItem = models.NewHeroSlide

	return &routeHandlers{
		authHandler:        newAuthHandler(stores.Users, tokens, allowRegistration),
		projectHandler:     newProjectHandler(stores.Projects, deps.Uploader),
		blogArticleHandler: newBlogArticleHandler(stores.Articles, deps.Uploader),
		teamHandler:        newTeamHandler(stores.Team, deps.Uploader),
		contactHandler:     newContactHandler(stores.Contacts, deps.Notifier),
		healthHandler:      newHealthHandler(deps.DB, startedAt),

		serviceHandler:    newResourceHandler("service", itemStore[models.Service](stores.Services), deps.Uploader, serviceFiles),
		clientHandler:     newResourceHandler("client", itemStore[models.Client](stores.Clients), deps.Uploader, clientFiles),
		locationHandler:   newResourceHandler("location", itemStore[models.Location](stores.Locations), deps.Uploader, locationFiles),
		heroSlideHandler:  heroSlides,
		impactStatHandler: newResourceHandler[models.ImpactStat, models.ImpactStatInput]("impact stat", stores.ImpactStats, deps.Uploader, nil),

		aboutHandler:     newSingletonHandler("about content", stores.About, deps.Uploader, aboutFiles),
		footerHandler:    newSingletonHandler[models.FooterContent, models.FooterContentInput]("footer content", stores.Footer, deps.Uploader, nil),
		expertiseHandler: newSingletonHandler[models.ExpertiseContent, models.ExpertiseContentInput]("expertise content", stores.Expertise, deps.Uploader, nil),
	}
}
