package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rpupo63/consultancy-site-backend/admin"
	"github.com/rpupo63/consultancy-site-backend/api"
	"github.com/rpupo63/consultancy-site-backend/client"
	"github.com/rpupo63/consultancy-site-backend/models"
)

// resourceConsole hides the item type of an admin console from the commands
type resourceConsole interface {
	Refresh(ctx context.Context) error
	ListState() *admin.ListState
	Selected() *admin.Selection
	PageLines() (lines []string, page admin.Page[string])
	VisibleIDs() []int64
	Export(w io.Writer) error
	BulkDelete(ctx context.Context) (admin.BulkResult, error)
}

type boundConsole[T, I any] struct {
	*admin.Console[T, I]
	id       func(T) int64
	describe func(T) string
}

func bind[T, I any](store admin.Store[T, I], id func(T) int64, match admin.Matcher[T], describe func(T) string) resourceConsole {
	return boundConsole[T, I]{Console: admin.NewConsole(store, id, match), id: id, describe: describe}
}

func (b boundConsole[T, I]) ListState() *admin.ListState { return &b.Console.State }

func (b boundConsole[T, I]) Selected() *admin.Selection { return &b.Console.Selection }

func (b boundConsole[T, I]) PageLines() ([]string, admin.Page[string]) {
	page := b.Console.Page()
	lines := make([]string, len(page.Items))
	for i, item := range page.Items {
		lines[i] = b.describe(item)
	}
	return lines, admin.Page[string]{Items: lines, Page: page.Page, TotalPages: page.TotalPages, TotalItems: page.TotalItems}
}

// VisibleIDs returns the ids of every item passing the filters, all pages
func (b boundConsole[T, I]) VisibleIDs() []int64 {
	filtered := b.Console.Filtered()
	ids := make([]int64, len(filtered))
	for i, item := range filtered {
		ids[i] = b.id(item)
	}
	return ids
}

var resourceNames = []string{"articles", "clients", "projects", "services", "team"}

func newResourceConsole(c *client.Client, resource string) (resourceConsole, error) {
	switch resource {
	case "projects":
		return bind[api.ProjectWithServices, models.ProjectInput](c.Projects(), admin.ProjectID, admin.MatchProject, describeProject), nil
	case "articles", "blog":
		return bind[api.BlogArticleWithRelations, models.BlogArticleInput](c.Articles(), admin.ArticleID, admin.MatchArticle, describeArticle), nil
	case "services":
		return bind[models.Service, models.ServiceInput](c.Services(), admin.ServiceID, admin.MatchService, describeService), nil
	case "team":
		return bind[api.TeamMemberWithServices, models.TeamMemberInput](c.Team(), admin.TeamMemberID, admin.MatchTeamMember, describeTeamMember), nil
	case "clients":
		return bind[models.Client, models.ClientInput](c.Clients(), admin.ClientID, admin.MatchClient, describeClient), nil
	}
	return nil, fmt.Errorf("unknown resource %q, expected one of %s", resource, strings.Join(resourceNames, ", "))
}

func describeProject(p api.ProjectWithServices) string {
	return fmt.Sprintf("%5d  %-12s  %-40s  %s", p.ID, p.Status, truncate(p.Title, 40), p.Organization)
}

func describeArticle(a api.BlogArticleWithRelations) string {
	return fmt.Sprintf("%5d  %-10s  %-40s  %s", a.ID, a.Status, truncate(a.Title, 40), a.Slug)
}

func describeService(s models.Service) string {
	return fmt.Sprintf("%5d  %s", s.ID, s.Title)
}

func describeTeamMember(m api.TeamMemberWithServices) string {
	return fmt.Sprintf("%5d  %-30s  %s", m.ID, truncate(m.Name, 30), m.Position)
}

func describeClient(c models.Client) string {
	return fmt.Sprintf("%5d  %-8s  %s", c.ID, c.Type, c.Name)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// parseFilters turns key=value pairs into list filters
func parseFilters(pairs []string) (map[string]string, error) {
	filters := map[string]string{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q is not key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

func formatPageNumbers(current, total int) string {
	var parts []string
	for _, p := range admin.PageNumbers(current, total) {
		switch {
		case p == admin.Ellipsis:
			parts = append(parts, "…")
		case p == current:
			parts = append(parts, fmt.Sprintf("[%d]", p))
		default:
			parts = append(parts, fmt.Sprint(p))
		}
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[int64]error) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
