package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db                 *gorm.DB
	userRepo           *UserRepo
	serviceRepo        *ServiceRepo
	projectRepo        *ProjectRepo
	blogArticleRepo    *BlogArticleRepo
	teamMemberRepo     *TeamMemberRepo
	clientRepo         *ClientRepo
	locationRepo       *LocationRepo
	heroSlideRepo      *HeroSlideRepo
	impactStatRepo     *ImpactStatRepo
	contactMessageRepo *ContactMessageRepo
	aboutContentRepo   *SingletonRepo[models.AboutContent]
	footerContentRepo  *SingletonRepo[models.FooterContent]
	expertiseRepo      *SingletonRepo[models.ExpertiseContent]
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                 db,
		userRepo:           NewUserRepo(db),
		serviceRepo:        NewServiceRepo(db),
		projectRepo:        NewProjectRepo(db),
		blogArticleRepo:    NewBlogArticleRepo(db),
		teamMemberRepo:     NewTeamMemberRepo(db),
		clientRepo:         NewClientRepo(db),
		locationRepo:       NewLocationRepo(db),
		heroSlideRepo:      NewHeroSlideRepo(db),
		impactStatRepo:     NewImpactStatRepo(db),
		contactMessageRepo: NewContactMessageRepo(db),
		aboutContentRepo:   NewSingletonRepo[models.AboutContent](db),
		footerContentRepo:  NewSingletonRepo[models.FooterContent](db),
		expertiseRepo:      NewSingletonRepo[models.ExpertiseContent](db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ServiceRepo() *ServiceRepo {
	return d.serviceRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) BlogArticleRepo() *BlogArticleRepo {
	return d.blogArticleRepo
}

func (d Database) TeamMemberRepo() *TeamMemberRepo {
	return d.teamMemberRepo
}

func (d Database) ClientRepo() *ClientRepo {
	return d.clientRepo
}

func (d Database) LocationRepo() *LocationRepo {
	return d.locationRepo
}

func (d Database) HeroSlideRepo() *HeroSlideRepo {
	return d.heroSlideRepo
}

func (d Database) ImpactStatRepo() *ImpactStatRepo {
	return d.impactStatRepo
}

func (d Database) ContactMessageRepo() *ContactMessageRepo {
	return d.contactMessageRepo
}

func (d Database) AboutContentRepo() *SingletonRepo[models.AboutContent] {
	return d.aboutContentRepo
}

func (d Database) FooterContentRepo() *SingletonRepo[models.FooterContent] {
	return d.footerContentRepo
}

func (d Database) ExpertiseContentRepo() *SingletonRepo[models.ExpertiseContent] {
	return d.expertiseRepo
}

// Ping checks the primary connection, used by the health endpoint.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
