package api

import (
	"time"

	"github.com/rpupo63/consultancy-site-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler        authHandler
	projectHandler     projectHandler
	blogArticleHandler blogArticleHandler
	teamHandler        teamHandler
	contactHandler     contactHandler
	healthHandler      healthHandler

	serviceHandler    resourceHandler[models.Service, models.ServiceInput]
	clientHandler     resourceHandler[models.Client, models.ClientInput]
	locationHandler   resourceHandler[models.Location, models.LocationInput]
	heroSlideHandler  resourceHandler[models.HeroSlide, models.HeroSlideInput]
	impactStatHandler resourceHandler[models.ImpactStat, models.ImpactStatInput]

	aboutHandler     singletonHandler[models.AboutContent, models.AboutContentInput]
	footerHandler    singletonHandler[models.FooterContent, models.FooterContentInput]
	expertiseHandler singletonHandler[models.ExpertiseContent, models.ExpertiseContentInput]
}

// ProjectWithServices is a project with its linked services. Lists carry
// only the ids; single project responses carry the rows too.
type ProjectWithServices struct {
	models.Project
	ServiceIDs []int64          `json:"service_ids"`
	Services   []models.Service `json:"services,omitempty"`
}

// BlogArticleWithRelations is an article with its linked services and projects
type BlogArticleWithRelations struct {
	models.BlogArticle
	ServiceIDs []int64          `json:"service_ids"`
	ProjectIDs []int64          `json:"project_ids"`
	Services   []models.Service `json:"services,omitempty"`
	Projects   []models.Project `json:"projects,omitempty"`
}

// TeamMemberWithServices is a team member with their linked services
type TeamMemberWithServices struct {
	models.TeamMember
	ServiceIDs []int64          `json:"service_ids"`
	Services   []models.Service `json:"services,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// ContactReceipt acknowledges a contact form submission
type ContactReceipt struct {
	ID int64 `json:"id"`
}

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func serviceIDsOf(services []models.Service) []int64 {
	ids := make([]int64, len(services))
	for i, s := range services {
		ids[i] = s.ID
	}
	return ids
}

func projectIDsOf(projects []models.Project) []int64 {
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}
