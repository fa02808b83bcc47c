package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/rpupo63/consultancy-site-backend/api"
	"github.com/rpupo63/consultancy-site-backend/models"
)

// File is an upload attached to a create or update call. Field is the form
// field the server expects, such as "image" or "logo".
type File struct {
	Field       string
	Name        string
	ContentType string
	Body        io.Reader
}

// Resource is an admin collection such as /admin/projects. T is what the
// server returns and I the strict input schema it accepts.
type Resource[T, I any] struct {
	c    *Client
	path string
}

func newResource[T, I any](c *Client, path string) Resource[T, I] {
	return Resource[T, I]{c: c, path: path}
}

func (r Resource[T, I]) List(ctx context.Context) ([]T, error) {
	return r.ListWhere(ctx, nil)
}

// ListWhere passes query as filters, e.g. status or category
func (r Resource[T, I]) ListWhere(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.c.getJSON(ctx, r.path, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r Resource[T, I]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.c.getJSON(ctx, r.itemPath(id), nil, &item)
	return item, err
}

func (r Resource[T, I]) Create(ctx context.Context, in I) (T, error) {
	return r.CreateWithFiles(ctx, in, nil)
}

func (r Resource[T, I]) CreateWithFiles(ctx context.Context, in I, files []File) (T, error) {
	var item T
	err := r.c.send(ctx, http.MethodPost, r.path, in, files, &item)
	return item, err
}

func (r Resource[T, I]) Update(ctx context.Context, id int64, in I) (T, error) {
	return r.UpdateWithFiles(ctx, id, in, nil)
}

func (r Resource[T, I]) UpdateWithFiles(ctx context.Context, id int64, in I, files []File) (T, error) {
	var item T
	err := r.c.send(ctx, http.MethodPatch, r.itemPath(id), in, files, &item)
	return item, err
}

func (r Resource[T, I]) Delete(ctx context.Context, id int64) error {
	return r.c.sendJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// SetRelation replaces a relation set, e.g. relation "services" on a project
func (r Resource[T, I]) SetRelation(ctx context.Context, id int64, relation string, ids []int64) (T, error) {
	var item T
	if ids == nil {
		ids = []int64{}
	}
	err := r.c.sendJSON(ctx, http.MethodPut, r.itemPath(id)+"/"+relation, map[string][]int64{"ids": ids}, &item)
	return item, err
}

func (r Resource[T, I]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// Singleton is a single-row content block such as the footer
type Singleton[T, I any] struct {
	c          *Client
	publicPath string
	adminPath  string
}

func (s Singleton[T, I]) Get(ctx context.Context) (T, error) {
	return cached(ctx, s.c.cache, s.publicPath, func(ctx context.Context) (T, error) {
		var item T
		err := s.c.getJSON(ctx, s.publicPath, nil, &item)
		return item, err
	})
}

func (s Singleton[T, I]) Save(ctx context.Context, in I, files []File) (T, error) {
	var item T
	err := s.c.send(ctx, http.MethodPut, s.adminPath, in, files, &item)
	return item, err
}

// send uses JSON, or multipart with the payload in the "data" field when
// files are attached
func (c *Client) send(ctx context.Context, method, path string, in any, files []File, out any) error {
	if len(files) == 0 {
		return c.sendJSON(ctx, method, path, in, out)
	}
	body, contentType, err := multipartBody(in, files)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: method, path: path, body: body, contentType: contentType}, out)
}

func multipartBody(in any, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	data, err := json.Marshal(in)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	if err := mw.WriteField("data", string(data)); err != nil {
		return nil, "", err
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

// Admin collections

func (c *Client) Projects() Resource[api.ProjectWithServices, models.ProjectInput] {
	return newResource[api.ProjectWithServices, models.ProjectInput](c, "/admin/projects")
}

func (c *Client) Articles() Resource[api.BlogArticleWithRelations, models.BlogArticleInput] {
	return newResource[api.BlogArticleWithRelations, models.BlogArticleInput](c, "/admin/blog/articles")
}

func (c *Client) Services() Resource[models.Service, models.ServiceInput] {
	return newResource[models.Service, models.ServiceInput](c, "/admin/services")
}

func (c *Client) Team() Resource[api.TeamMemberWithServices, models.TeamMemberInput] {
	return newResource[api.TeamMemberWithServices, models.TeamMemberInput](c, "/admin/team")
}

func (c *Client) Clients() Resource[models.Client, models.ClientInput] {
	return newResource[models.Client, models.ClientInput](c, "/admin/clients")
}

func (c *Client) Locations() Resource[models.Location, models.LocationInput] {
	return newResource[models.Location, models.LocationInput](c, "/admin/locations")
}

func (c *Client) HeroSlides() Resource[models.HeroSlide, models.HeroSlideInput] {
	return newResource[models.HeroSlide, models.HeroSlideInput](c, "/admin/hero-slides")
}

func (c *Client) ImpactStats() Resource[models.ImpactStat, models.ImpactStatInput] {
	return newResource[models.ImpactStat, models.ImpactStatInput](c, "/admin/impact-stats")
}

func (c *Client) ContactMessages() Resource[models.ContactMessage, struct{}] {
	return newResource[models.ContactMessage, struct{}](c, "/admin/contact-messages")
}

func (c *Client) About() Singleton[models.AboutContent, models.AboutContentInput] {
	return Singleton[models.AboutContent, models.AboutContentInput]{c: c, publicPath: "/about-content", adminPath: "/admin/about-content"}
}

func (c *Client) Footer() Singleton[models.FooterContent, models.FooterContentInput] {
	return Singleton[models.FooterContent, models.FooterContentInput]{c: c, publicPath: "/footer", adminPath: "/admin/footer"}
}

func (c *Client) Expertise() Singleton[models.ExpertiseContent, models.ExpertiseContentInput] {
	return Singleton[models.ExpertiseContent, models.ExpertiseContentInput]{c: c, publicPath: "/expertise", adminPath: "/admin/expertise"}
}

// AddArticleService links one service to an article
func (c *Client) AddArticleService(ctx context.Context, articleID, serviceID int64) (api.BlogArticleWithRelations, error) {
	var article api.BlogArticleWithRelations
	err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/blog/articles/%d/services/%d", articleID, serviceID), nil, &article)
	return article, err
}

// RemoveArticleService unlinks one service from an article
func (c *Client) RemoveArticleService(ctx context.Context, articleID, serviceID int64) (api.BlogArticleWithRelations, error) {
	var article api.BlogArticleWithRelations
	err := c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/blog/articles/%d/services/%d", articleID, serviceID), nil, &article)
	return article, err
}

func (c *Client) MarkMessageRead(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/admin/contact-messages/%d/read", id), nil, nil)
}
