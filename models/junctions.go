package models

// Junction rows for the many-to-many relations. The composite primary key
// keeps each pair unique and the constraints cascade deletes from either side.

type ProjectService struct {
	ProjectID int64   `json:"project_id" gorm:"primaryKey;autoIncrement:false"`
	ServiceID int64   `json:"service_id" gorm:"primaryKey;autoIncrement:false;index"`
	Project   Project `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Service   Service `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (ProjectService) TableName() string { return "project_services" }

type BlogArticleService struct {
	BlogArticleID int64       `json:"blog_article_id" gorm:"primaryKey;autoIncrement:false"`
	ServiceID     int64       `json:"service_id" gorm:"primaryKey;autoIncrement:false;index"`
	BlogArticle   BlogArticle `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Service       Service     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (BlogArticleService) TableName() string { return "blog_article_services" }

type BlogArticleProject struct {
	BlogArticleID int64       `json:"blog_article_id" gorm:"primaryKey;autoIncrement:false"`
	ProjectID     int64       `json:"project_id" gorm:"primaryKey;autoIncrement:false;index"`
	BlogArticle   BlogArticle `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Project       Project     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (BlogArticleProject) TableName() string { return "blog_article_projects" }

type TeamMemberService struct {
	TeamMemberID int64      `json:"team_member_id" gorm:"primaryKey;autoIncrement:false"`
	ServiceID    int64      `json:"service_id" gorm:"primaryKey;autoIncrement:false;index"`
	TeamMember   TeamMember `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Service      Service    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (TeamMemberService) TableName() string { return "team_member_services" }
