package api

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
)

// The handlers depend on these small interfaces rather than on the gorm
// repos so they can run against in-memory stores in tests.

type itemStore[T any] interface {
	FindByID(ctx context.Context, id int64) (*T, error)
	Add(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type crudStore[T any] interface {
	itemStore[T]
	FindAll(ctx context.Context) ([]T, error)
}

type singletonStore[T any] interface {
	Get(ctx context.Context) (*T, error)
	Save(ctx context.Context, item *T) error
}

type projectStore interface {
	FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	Add(ctx context.Context, project *models.Project, serviceIDs []int64) error
	Update(ctx context.Context, project *models.Project, serviceIDs []int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	Services(ctx context.Context, projectID int64) ([]models.Service, error)
	ServiceIDs(ctx context.Context, projectIDs []int64) (map[int64][]int64, error)
	SetServices(ctx context.Context, projectID int64, serviceIDs []int64) error
}

type blogArticleStore interface {
	FindAll(ctx context.Context, filter models.BlogArticleFilter) ([]models.BlogArticle, error)
	FindByID(ctx context.Context, id int64) (*models.BlogArticle, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogArticle, error)
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	Add(ctx context.Context, article *models.BlogArticle, serviceIDs, projectIDs []int64) error
	Update(ctx context.Context, article *models.BlogArticle, serviceIDs, projectIDs []int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	Services(ctx context.Context, articleID int64) ([]models.Service, error)
	Projects(ctx context.Context, articleID int64) ([]models.Project, error)
	RelationIDs(ctx context.Context, articleIDs []int64) (services, projects map[int64][]int64, err error)
	SetServices(ctx context.Context, articleID int64, serviceIDs []int64) error
	SetProjects(ctx context.Context, articleID int64, projectIDs []int64) error
	AddService(ctx context.Context, articleID, serviceID int64) error
	RemoveService(ctx context.Context, articleID, serviceID int64) (bool, error)
}

type teamMemberStore interface {
	FindAll(ctx context.Context) ([]models.TeamMember, error)
	FindByID(ctx context.Context, id int64) (*models.TeamMember, error)
	FindBySlug(ctx context.Context, slug string) (*models.TeamMember, error)
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	Add(ctx context.Context, member *models.TeamMember, serviceIDs []int64) error
	Update(ctx context.Context, member *models.TeamMember, serviceIDs []int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	Services(ctx context.Context, memberID int64) ([]models.Service, error)
	ServiceIDs(ctx context.Context, memberIDs []int64) (map[int64][]int64, error)
	SetServices(ctx context.Context, memberID int64, serviceIDs []int64) error
}

type clientStore interface {
	itemStore[models.Client]
	FindAll(ctx context.Context, clientType models.ClientType) ([]models.Client, error)
}

type heroSlideStore interface {
	itemStore[models.HeroSlide]
	FindAll(ctx context.Context, activeOnly bool) ([]models.HeroSlide, error)
}

type contactMessageStore interface {
	FindAll(ctx context.Context) ([]models.ContactMessage, error)
	Add(ctx context.Context, item *models.ContactMessage) error
	MarkRead(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type userStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Add(ctx context.Context, user *models.User) error
}

type contactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}
