package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rpupo63/consultancy-site-backend/api"
	"github.com/rpupo63/consultancy-site-backend/models"
)

// Login stores the returned token in the session
func (c *Client) Login(ctx context.Context, username, password string) (api.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", username, password)
}

// Register creates an account and logs it in
func (c *Client) Register(ctx context.Context, username, password string) (api.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (api.AuthResponse, error) {
	var auth api.AuthResponse
	creds := models.Credentials{Username: username, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, path, creds, &auth); err != nil {
		return auth, err
	}
	if err := c.session.SetToken(auth.Token); err != nil {
		return auth, err
	}
	return auth, nil
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the logged in user
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if c.session.Token() == "" {
		return user, errNoSession
	}
	err := c.getJSON(ctx, "/admin/me", nil, &user)
	return user, err
}

// SubmitContact sends the public contact form
func (c *Client) SubmitContact(ctx context.Context, in models.ContactMessageInput) (api.ContactReceipt, error) {
	var receipt api.ContactReceipt
	err := c.sendJSON(ctx, http.MethodPost, "/contact", in, &receipt)
	return receipt, err
}

// publicList reads a public collection through the cache
func publicList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	return cached(ctx, c.cache, key, func(ctx context.Context) ([]T, error) {
		var items []T
		if err := c.getJSON(ctx, path, query, &items); err != nil {
			return nil, err
		}
		return items, nil
	})
}

func publicItem[T any](ctx context.Context, c *Client, path string) (T, error) {
	return cached(ctx, c.cache, path, func(ctx context.Context) (T, error) {
		var item T
		err := c.getJSON(ctx, path, nil, &item)
		return item, err
	})
}

// PublicProjects lists non-draft projects, optionally by status and category
func (c *Client) PublicProjects(ctx context.Context, status models.ProjectStatus, category string) ([]api.ProjectWithServices, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if category != "" {
		query.Set("category", category)
	}
	return publicList[api.ProjectWithServices](ctx, c, "/content/projects", query)
}

func (c *Client) PublicProject(ctx context.Context, id int64) (api.ProjectWithServices, error) {
	return publicItem[api.ProjectWithServices](ctx, c, "/content/projects/"+strconv.FormatInt(id, 10))
}

func (c *Client) PublicServices(ctx context.Context) ([]models.Service, error) {
	return publicList[models.Service](ctx, c, "/content/services", nil)
}

func (c *Client) PublicClients(ctx context.Context, clientType models.ClientType) ([]models.Client, error) {
	query := url.Values{}
	if clientType != "" {
		query.Set("type", string(clientType))
	}
	return publicList[models.Client](ctx, c, "/content/clients", query)
}

func (c *Client) PublicTeam(ctx context.Context) ([]api.TeamMemberWithServices, error) {
	return publicList[api.TeamMemberWithServices](ctx, c, "/team", nil)
}

func (c *Client) TeamMember(ctx context.Context, slug string) (api.TeamMemberWithServices, error) {
	return publicItem[api.TeamMemberWithServices](ctx, c, "/team/"+url.PathEscape(slug))
}

func (c *Client) PublicLocations(ctx context.Context) ([]models.Location, error) {
	return publicList[models.Location](ctx, c, "/locations", nil)
}

// PublishedArticles lists published articles; zero arguments match all
func (c *Client) PublishedArticles(ctx context.Context, category models.ArticleCategory, serviceID int64) ([]api.BlogArticleWithRelations, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", string(category))
	}
	if serviceID > 0 {
		query.Set("service", strconv.FormatInt(serviceID, 10))
	}
	return publicList[api.BlogArticleWithRelations](ctx, c, "/blog/articles", query)
}

// PublishedArticle looks an article up by slug or numeric id
func (c *Client) PublishedArticle(ctx context.Context, slugOrID string) (api.BlogArticleWithRelations, error) {
	return publicItem[api.BlogArticleWithRelations](ctx, c, "/blog/articles/"+url.PathEscape(slugOrID))
}

func (c *Client) PublicHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	return publicList[models.HeroSlide](ctx, c, "/hero-slides", nil)
}

func (c *Client) PublicImpactStats(ctx context.Context) ([]models.ImpactStat, error) {
	return publicList[models.ImpactStat](ctx, c, "/impact-stats", nil)
}
