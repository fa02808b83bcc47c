package admin

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rpupo63/consultancy-site-backend/api"
	"github.com/rpupo63/consultancy-site-backend/models"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func searchHits(search string, fields ...string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, search) {
			return true
		}
	}
	return false
}

// filterIs passes when the filter is unset or equal to value
func filterIs(filters map[string]string, key, value string) bool {
	want, ok := filters[key]
	return !ok || want == value
}

// filterHasID passes when the filter is unset or names one of ids
func filterHasID(filters map[string]string, key string, ids []int64) bool {
	raw, ok := filters[key]
	if !ok {
		return true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return slices.Contains(ids, id)
}

// MatchProject searches title and organization and filters on status,
// category and service
func MatchProject(p api.ProjectWithServices, search string, filters map[string]string) bool {
	return searchHits(search, p.Title, p.Organization) &&
		filterIs(filters, "status", string(p.Status)) &&
		filterIs(filters, "category", p.Category) &&
		filterHasID(filters, "service", p.ServiceIDs)
}

// MatchArticle searches title and excerpt and filters on status, category
// and service
func MatchArticle(a api.BlogArticleWithRelations, search string, filters map[string]string) bool {
	return searchHits(search, a.Title, a.Excerpt) &&
		filterIs(filters, "status", string(a.Status)) &&
		filterIs(filters, "category", string(a.Category)) &&
		filterHasID(filters, "service", a.ServiceIDs)
}

// MatchService searches title and description
func MatchService(s models.Service, search string, _ map[string]string) bool {
	return searchHits(search, s.Title, s.Description)
}

func MatchTeamMember(m api.TeamMemberWithServices, search string, filters map[string]string) bool {
	return searchHits(search, m.Name, m.Position, m.Department) &&
		filterIs(filters, "department", m.Department) &&
		filterHasID(filters, "service", m.ServiceIDs)
}

func MatchClient(c models.Client, search string, filters map[string]string) bool {
	return searchHits(search, c.Name, c.Description) &&
		filterIs(filters, "type", string(c.Type))
}

func ProjectID(p api.ProjectWithServices) int64 { return p.ID }
func ArticleID(a api.BlogArticleWithRelations) int64 { return a.ID }
func ServiceID(s models.Service) int64 { return s.ID }
func TeamMemberID(m api.TeamMemberWithServices) int64 { return m.ID }
func ClientID(c models.Client) int64 { return c.ID }
