package api

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

// memTable is an in-memory itemStore keyed by the id field that idOf points at
type memTable[T any] struct {
	mu   sync.Mutex
	rows map[int64]T
	next int64
	idOf func(*T) *int64
}

func newMemTable[T any](idOf func(*T) *int64) *memTable[T] {
	return &memTable[T]{rows: map[int64]T{}, idOf: idOf}
}

func (m *memTable[T]) FindAll(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *memTable[T]) FindByID(_ context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memTable[T]) Add(_ context.Context, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	*m.idOf(item) = m.next
	m.rows[m.next] = *item
	return nil
}

func (m *memTable[T]) Update(_ context.Context, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := *m.idOf(item)
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.rows[id] = *item
	return nil
}

func (m *memTable[T]) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memTable[T]) byIDs(ids []int64) []T {
	out := []T{}
	for _, id := range ids {
		if row, ok := m.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

func newServiceTable(titles ...string) *memTable[models.Service] {
	t := newMemTable(func(s *models.Service) *int64 { return &s.ID })
	for _, title := range titles {
		_ = t.Add(context.Background(), &models.Service{Title: title})
	}
	return t
}

// links is a junction table from one id to an ordered set of ids
type links map[int64][]int64

func (l links) set(id int64, ids []int64) {
	l[id] = append([]int64(nil), ids...)
}

func (l links) add(id, other int64) {
	if !slices.Contains(l[id], other) {
		l[id] = append(l[id], other)
	}
}

func (l links) remove(id, other int64) bool {
	i := slices.Index(l[id], other)
	if i < 0 {
		return false
	}
	l[id] = slices.Delete(l[id], i, i+1)
	return true
}

type fakeProjects struct {
	*memTable[models.Project]
	services *memTable[models.Service]
	links    links
}

func newFakeProjects(services *memTable[models.Service]) *fakeProjects {
	return &fakeProjects{
		memTable: newMemTable(func(p *models.Project) *int64 { return &p.ID }),
		services: services,
		links:    links{},
	}
}

func (f *fakeProjects) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	all, _ := f.memTable.FindAll(ctx)
	out := []models.Project{}
	for _, p := range all {
		if filter.HideDrafts && p.Status == models.ProjectStatusDraft {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) Add(ctx context.Context, p *models.Project, serviceIDs []int64) error {
	if err := f.memTable.Add(ctx, p); err != nil {
		return err
	}
	f.links.set(p.ID, serviceIDs)
	return nil
}

func (f *fakeProjects) Update(ctx context.Context, p *models.Project, serviceIDs []int64) error {
	if err := f.memTable.Update(ctx, p); err != nil {
		return err
	}
	if serviceIDs != nil {
		f.links.set(p.ID, serviceIDs)
	}
	return nil
}

func (f *fakeProjects) Delete(ctx context.Context, id int64) (bool, error) {
	delete(f.links, id)
	return f.memTable.Delete(ctx, id)
}

func (f *fakeProjects) Services(_ context.Context, id int64) ([]models.Service, error) {
	return f.services.byIDs(f.links[id]), nil
}

func (f *fakeProjects) ServiceIDs(_ context.Context, ids []int64) (map[int64][]int64, error) {
	out := map[int64][]int64{}
	for _, id := range ids {
		out[id] = f.links[id]
	}
	return out, nil
}

func (f *fakeProjects) SetServices(_ context.Context, id int64, serviceIDs []int64) error {
	f.links.set(id, serviceIDs)
	return nil
}

type fakeArticles struct {
	*memTable[models.BlogArticle]
	services     *memTable[models.Service]
	projects     *fakeProjects
	serviceLinks links
	projectLinks links
}

func newFakeArticles(services *memTable[models.Service], projects *fakeProjects) *fakeArticles {
	return &fakeArticles{
		memTable:     newMemTable(func(a *models.BlogArticle) *int64 { return &a.ID }),
		services:     services,
		projects:     projects,
		serviceLinks: links{},
		projectLinks: links{},
	}
}

func (f *fakeArticles) FindAll(ctx context.Context, filter models.BlogArticleFilter) ([]models.BlogArticle, error) {
	all, _ := f.memTable.FindAll(ctx)
	out := []models.BlogArticle{}
	for _, a := range all {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.ServiceID != 0 && !slices.Contains(f.serviceLinks[a.ID], filter.ServiceID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeArticles) FindBySlug(ctx context.Context, slug string) (*models.BlogArticle, error) {
	all, _ := f.memTable.FindAll(ctx)
	for _, a := range all {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeArticles) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	all, _ := f.memTable.FindAll(ctx)
	var slugs []string
	for _, a := range all {
		if strings.HasPrefix(a.Slug, base) {
			slugs = append(slugs, a.Slug)
		}
	}
	return slugs, nil
}

func (f *fakeArticles) Add(ctx context.Context, a *models.BlogArticle, serviceIDs, projectIDs []int64) error {
	if err := f.memTable.Add(ctx, a); err != nil {
		return err
	}
	f.serviceLinks.set(a.ID, serviceIDs)
	f.projectLinks.set(a.ID, projectIDs)
	return nil
}

func (f *fakeArticles) Update(ctx context.Context, a *models.BlogArticle, serviceIDs, projectIDs []int64) error {
	if err := f.memTable.Update(ctx, a); err != nil {
		return err
	}
	if serviceIDs != nil {
		f.serviceLinks.set(a.ID, serviceIDs)
	}
	if projectIDs != nil {
		f.projectLinks.set(a.ID, projectIDs)
	}
	return nil
}

func (f *fakeArticles) Delete(ctx context.Context, id int64) (bool, error) {
	delete(f.serviceLinks, id)
	delete(f.projectLinks, id)
	return f.memTable.Delete(ctx, id)
}

func (f *fakeArticles) Services(_ context.Context, id int64) ([]models.Service, error) {
	return f.services.byIDs(f.serviceLinks[id]), nil
}

func (f *fakeArticles) Projects(_ context.Context, id int64) ([]models.Project, error) {
	return f.projects.byIDs(f.projectLinks[id]), nil
}

func (f *fakeArticles) RelationIDs(_ context.Context, ids []int64) (map[int64][]int64, map[int64][]int64, error) {
	services, projects := map[int64][]int64{}, map[int64][]int64{}
	for _, id := range ids {
		services[id] = f.serviceLinks[id]
		projects[id] = f.projectLinks[id]
	}
	return services, projects, nil
}

func (f *fakeArticles) SetServices(_ context.Context, id int64, ids []int64) error {
	f.serviceLinks.set(id, ids)
	return nil
}

func (f *fakeArticles) SetProjects(_ context.Context, id int64, ids []int64) error {
	f.projectLinks.set(id, ids)
	return nil
}

func (f *fakeArticles) AddService(_ context.Context, id, serviceID int64) error {
	f.serviceLinks.add(id, serviceID)
	return nil
}

func (f *fakeArticles) RemoveService(_ context.Context, id, serviceID int64) (bool, error) {
	return f.serviceLinks.remove(id, serviceID), nil
}

type fakeUsers struct {
	*memTable[models.User]
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{newMemTable(func(u *models.User) *int64 { return &u.ID })}
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	all, _ := f.FindAll(ctx)
	for _, u := range all {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Count(ctx context.Context) (int64, error) {
	all, _ := f.FindAll(ctx)
	return int64(len(all)), nil
}

type fakeContacts struct {
	*memTable[models.ContactMessage]
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{newMemTable(func(m *models.ContactMessage) *int64 { return &m.ID })}
}

func (f *fakeContacts) MarkRead(ctx context.Context, id int64) (bool, error) {
	msg, _ := f.FindByID(ctx, id)
	if msg == nil {
		return false, nil
	}
	msg.IsRead = true
	return true, f.Update(ctx, msg)
}

type upload struct {
	bucket, filename, contentType string
	size                          int64
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads []upload
	removed []string
	// failAt makes the upload with this 1-based index fail
	failAt int
}

func (f *fakeUploader) Upload(_ context.Context, bucket, filename, contentType string, body io.Reader, size int64) (string, error) {
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.uploads)+1 == f.failAt {
		return "", fmt.Errorf("bucket %s unavailable", bucket)
	}
	f.uploads = append(f.uploads, upload{bucket: bucket, filename: filename, contentType: contentType, size: n})
	return "https://cdn.example.com/" + bucket + "/" + filename, nil
}

func (f *fakeUploader) Remove(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, url)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.ContactMessage
	err  error
}

func (n *recordingNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

type memSingleton[T any] struct {
	mu  sync.Mutex
	row *T
}

func (m *memSingleton[T]) Get(context.Context) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return nil, nil
	}
	row := *m.row
	return &row, nil
}

func (m *memSingleton[T]) Save(_ context.Context, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *item
	m.row = &row
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// testStores is the in-memory backing of a test router
type testStores struct {
	services *memTable[models.Service]
	projects *fakeProjects
	articles *fakeArticles
	users    *fakeUsers
	contacts *fakeContacts
	about    *memSingleton[models.AboutContent]
}

func newTestStores() testStores {
	services := newServiceTable("Strategy", "Engineering", "Training")
	projects := newFakeProjects(services)
	return testStores{
		services: services,
		projects: projects,
		articles: newFakeArticles(services, projects),
		users:    newFakeUsers(),
		contacts: newFakeContacts(),
		about:    &memSingleton[models.AboutContent]{},
	}
}

func (s testStores) stores() Stores {
	return Stores{
		Users:       s.users,
		Services:    s.services,
		Projects:    s.projects,
		Articles:    s.articles,
		Contacts:    s.contacts,
		About:       s.about,
		Locations:   newMemTable(func(l *models.Location) *int64 { return &l.ID }),
		ImpactStats: newMemTable(func(i *models.ImpactStat) *int64 { return &i.ID }),
	}
}
