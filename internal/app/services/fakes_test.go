package services

import (
	"context"
	"io"
	"mime/multipart"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/repositories"
	"github.com/yigit/elearning/internal/db"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/cluster"
)

var testLogger = zerolog.New(io.Discard)

// world is a tiny in-memory database shared by the fakes
type world struct {
	users       map[int64]*models.User
	subjects    map[int64]*models.Subject
	courses     map[int64]*models.Course
	modules     map[int64]*models.Module
	contents    map[int64]*models.Content
	items       map[models.ContentType]map[int64]models.Item
	reviews     []*models.Review
	enrollments map[[2]int64]bool
	clusters    [][]int64
	nextID      int64
}

func newWorld() *world {
	return &world{
		users:       map[int64]*models.User{},
		subjects:    map[int64]*models.Subject{},
		courses:     map[int64]*models.Course{},
		modules:     map[int64]*models.Module{},
		contents:    map[int64]*models.Content{},
		items:       map[models.ContentType]map[int64]models.Item{},
		enrollments: map[[2]int64]bool{},
		nextID:      100,
	}
}

func (w *world) id() int64 {
	w.nextID++
	return w.nextID
}

func (w *world) addSubject(title, slug string) *models.Subject {
	s := &models.Subject{ID: w.id(), Title: title, Slug: slug}
	w.subjects[s.ID] = s
	return s
}

func (w *world) addCourse(ownerID, subjectID int64, slug string) *models.Course {
	c := &models.Course{ID: w.id(), OwnerID: ownerID, SubjectID: subjectID, Title: slug, Slug: slug,
		Owner: &models.User{ID: ownerID, Username: "owner"}}
	w.courses[c.ID] = c
	return c
}

func (w *world) addModule(courseID int64, order int) *models.Module {
	m := &models.Module{ID: w.id(), CourseID: courseID, Title: "module", Order: order}
	w.modules[m.ID] = m
	return m
}

func (w *world) addItem(kind models.ContentKind, ownerID int64, payload string) models.Item {
	item := kind.New()
	item.Base().ID = w.id()
	item.Base().OwnerID = ownerID
	item.Base().Title = "item"
	item.SetPayload(payload)
	if w.items[kind.Type] == nil {
		w.items[kind.Type] = map[int64]models.Item{}
	}
	w.items[kind.Type][item.Base().ID] = item
	return item
}

func (w *world) addContent(moduleID int64, kind models.ContentKind, objectID int64, order int) *models.Content {
	c := &models.Content{ID: w.id(), ModuleID: moduleID, ContentType: kind.Type, ObjectID: objectID, Order: order}
	w.contents[c.ID] = c
	return c
}

func (w *world) courseOwner(courseID int64) (int64, bool) {
	c, ok := w.courses[courseID]
	if !ok {
		return 0, false
	}
	return c.OwnerID, true
}

func (w *world) moduleOwner(moduleID int64) (int64, bool) {
	m, ok := w.modules[moduleID]
	if !ok {
		return 0, false
	}
	return w.courseOwner(m.CourseID)
}

// fakeOwners implements auth.OwnerLookup
type fakeOwners struct{ w *world }

func (f fakeOwners) CourseOwner(_ context.Context, id int64) (int64, error) {
	if o, ok := f.w.courseOwner(id); ok {
		return o, nil
	}
	return 0, apperrors.ErrCourseNotFound
}

func (f fakeOwners) ModuleOwner(_ context.Context, id int64) (int64, error) {
	if o, ok := f.w.moduleOwner(id); ok {
		return o, nil
	}
	return 0, apperrors.ErrModuleNotFound
}

func (f fakeOwners) ContentOwner(_ context.Context, id int64) (int64, error) {
	c, ok := f.w.contents[id]
	if !ok {
		return 0, apperrors.ErrContentNotFound
	}
	if o, ok := f.w.moduleOwner(c.ModuleID); ok {
		return o, nil
	}
	return 0, apperrors.ErrContentNotFound
}

type fakeSubjects struct {
	w     *world
	calls int
}

func (f *fakeSubjects) GetBySlug(_ context.Context, slug string) (*models.Subject, error) {
	for _, s := range f.w.subjects {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (f *fakeSubjects) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.w.subjects[id]
	return ok, nil
}

func (f *fakeSubjects) GetAll(_ context.Context) ([]*models.Subject, error) {
	out := make([]*models.Subject, 0, len(f.w.subjects))
	for _, s := range f.w.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeSubjects) ListWithCourseCounts(_ context.Context) ([]dto.SubjectSummary, error) {
	f.calls++
	out := make([]dto.SubjectSummary, 0)
	for _, s := range f.w.subjects {
		var n int64
		for _, c := range f.w.courses {
			if c.SubjectID == s.ID {
				n++
			}
		}
		out = append(out, dto.SubjectSummary{ID: s.ID, Title: s.Title, Slug: s.Slug, TotalCourses: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

type fakeCourses struct {
	w            *world
	summaryCalls int
	peerCalls    int
}

func (f *fakeCourses) summary(c *models.Course) dto.CourseSummary {
	s := dto.CourseSummary{ID: c.ID, Title: c.Title, Slug: c.Slug, SubjectID: c.SubjectID}
	var sum float64
	for _, m := range f.w.modules {
		if m.CourseID == c.ID {
			s.TotalModules++
		}
	}
	for _, r := range f.w.reviews {
		if r.CourseID == c.ID {
			s.TotalReviews++
			sum += float64(r.Rating)
		}
	}
	if s.TotalReviews > 0 {
		avg := sum / float64(s.TotalReviews)
		s.AverageRating = &avg
	}
	return s
}

func (f *fakeCourses) ListSummaries(_ context.Context, subjectID *int64) ([]dto.CourseSummary, error) {
	f.summaryCalls++
	out := make([]dto.CourseSummary, 0)
	for _, c := range f.w.courses {
		if subjectID == nil || c.SubjectID == *subjectID {
			out = append(out, f.summary(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourses) RecommendFromPeers(_ context.Context, _ int64, peerIDs []int64, _ float64, _ int) ([]dto.CourseSummary, error) {
	f.peerCalls++
	out := make([]dto.CourseSummary, 0)
	seen := map[int64]bool{}
	for _, r := range f.w.reviews {
		for _, p := range peerIDs {
			if r.UserID == p && !seen[r.CourseID] {
				seen[r.CourseID] = true
				out = append(out, f.summary(f.w.courses[r.CourseID]))
			}
		}
	}
	return out, nil
}

func (f *fakeCourses) TopRated(_ context.Context, _ int64, _ int) ([]dto.CourseSummary, error) {
	return f.ListSummaries(context.Background(), nil)
}

func (f *fakeCourses) GetBySlug(_ context.Context, slug string) (*models.Course, error) {
	for _, c := range f.w.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := f.w.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourses) GetForOwner(_ context.Context, id, ownerID int64) (*models.Course, error) {
	if c, ok := f.w.courses[id]; ok && c.OwnerID == ownerID {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourses) ListByOwner(_ context.Context, ownerID int64) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for _, c := range f.w.courses {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) ListByStudent(_ context.Context, studentID int64) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for key := range f.w.enrollments {
		if key[1] == studentID {
			out = append(out, f.w.courses[key[0]])
		}
	}
	return out, nil
}

func (f *fakeCourses) Create(_ context.Context, c *models.Course) error {
	c.ID = f.w.id()
	f.w.courses[c.ID] = c
	return nil
}

func (f *fakeCourses) Update(_ context.Context, c *models.Course) error {
	f.w.courses[c.ID] = c
	return nil
}

func (f *fakeCourses) Delete(_ context.Context, id, ownerID int64) error {
	c, ok := f.w.courses[id]
	if !ok || c.OwnerID != ownerID {
		return apperrors.ErrCourseNotFound
	}
	delete(f.w.courses, id)
	for mid, m := range f.w.modules {
		if m.CourseID == id {
			delete(f.w.modules, mid)
			for cid, ct := range f.w.contents {
				if ct.ModuleID == mid {
					delete(f.w.contents, cid)
				}
			}
		}
	}
	return nil
}

func (f *fakeCourses) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	for _, c := range f.w.courses {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourses) Stats(_ context.Context, courseID int64) (*repositories.CourseStats, error) {
	s := f.summary(f.w.courses[courseID])
	return &repositories.CourseStats{TotalModules: s.TotalModules, TotalReviews: s.TotalReviews, AverageRating: s.AverageRating}, nil
}

type fakeModules struct{ w *world }

func (f *fakeModules) ListByCourse(_ context.Context, courseID int64) ([]*models.Module, error) {
	out := make([]*models.Module, 0)
	for _, m := range f.w.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeModules) GetInCourse(_ context.Context, moduleID, courseID int64) (*models.Module, error) {
	if m, ok := f.w.modules[moduleID]; ok && m.CourseID == courseID {
		return m, nil
	}
	return nil, apperrors.ErrModuleNotFound
}

func (f *fakeModules) GetForOwner(_ context.Context, moduleID, ownerID int64) (*models.Module, error) {
	if o, ok := f.w.moduleOwner(moduleID); ok && o == ownerID {
		return f.w.modules[moduleID], nil
	}
	return nil, apperrors.ErrModuleNotFound
}

func (f *fakeModules) NextOrder(_ context.Context, _ repositories.Querier, courseID int64) (int, error) {
	next := 0
	for _, m := range f.w.modules {
		if m.CourseID == courseID && m.Order+1 > next {
			next = m.Order + 1
		}
	}
	return next, nil
}

func (f *fakeModules) Create(_ context.Context, _ repositories.Querier, m *models.Module) error {
	m.ID = f.w.id()
	f.w.modules[m.ID] = m
	return nil
}

func (f *fakeModules) Update(_ context.Context, _ repositories.Querier, m *models.Module) error {
	existing, ok := f.w.modules[m.ID]
	if !ok || existing.CourseID != m.CourseID {
		return apperrors.ErrModuleNotFound
	}
	existing.Title = m.Title
	existing.Description = m.Description
	return nil
}

func (f *fakeModules) DeleteExcept(_ context.Context, _ repositories.Querier, courseID int64, keep []int64) (int64, error) {
	kept := map[int64]bool{}
	for _, id := range keep {
		kept[id] = true
	}
	var n int64
	for id, m := range f.w.modules {
		if m.CourseID == courseID && !kept[id] {
			delete(f.w.modules, id)
			for cid, ct := range f.w.contents {
				if ct.ModuleID == id {
					delete(f.w.contents, cid)
				}
			}
			n++
		}
	}
	return n, nil
}

func (f *fakeModules) UpdateOrderForOwner(_ context.Context, moduleID, ownerID int64, order int) (bool, error) {
	if o, ok := f.w.moduleOwner(moduleID); ok && o == ownerID {
		f.w.modules[moduleID].Order = order
		return true, nil
	}
	return false, nil
}

type fakeContents struct {
	w         *world
	deleteErr error
}

func (f *fakeContents) sorted(match func(*models.Content) bool) []*models.Content {
	out := make([]*models.Content, 0)
	for _, c := range f.w.contents {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeContents) ListByModule(_ context.Context, moduleID int64) ([]*models.Content, error) {
	return f.sorted(func(c *models.Content) bool { return c.ModuleID == moduleID }), nil
}

func (f *fakeContents) ListByCourse(_ context.Context, courseID int64) ([]*models.Content, error) {
	return f.sorted(func(c *models.Content) bool {
		m, ok := f.w.modules[c.ModuleID]
		return ok && m.CourseID == courseID
	}), nil
}

func (f *fakeContents) GetForOwner(_ context.Context, contentID, ownerID int64) (*models.Content, error) {
	c, ok := f.w.contents[contentID]
	if !ok {
		return nil, apperrors.ErrContentNotFound
	}
	if o, ok := f.w.moduleOwner(c.ModuleID); !ok || o != ownerID {
		return nil, apperrors.ErrContentNotFound
	}
	return c, nil
}

func (f *fakeContents) NextOrder(_ context.Context, moduleID int64) (int, error) {
	next := 0
	for _, c := range f.w.contents {
		if c.ModuleID == moduleID && c.Order+1 > next {
			next = c.Order + 1
		}
	}
	return next, nil
}

func (f *fakeContents) Create(_ context.Context, c *models.Content) error {
	c.ID = f.w.id()
	f.w.contents[c.ID] = c
	return nil
}

func (f *fakeContents) Delete(_ context.Context, contentID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.w.contents[contentID]; !ok {
		return apperrors.ErrContentNotFound
	}
	delete(f.w.contents, contentID)
	return nil
}

func (f *fakeContents) UpdateOrderForOwner(_ context.Context, contentID, ownerID int64, order int) (bool, error) {
	c, ok := f.w.contents[contentID]
	if !ok {
		return false, nil
	}
	if o, ok := f.w.moduleOwner(c.ModuleID); ok && o == ownerID {
		c.Order = order
		return true, nil
	}
	return false, nil
}

type fakeItems struct{ w *world }

func (f *fakeItems) GetForOwner(_ context.Context, kind models.ContentKind, id, ownerID int64) (models.Item, error) {
	if item, ok := f.w.items[kind.Type][id]; ok && item.Base().OwnerID == ownerID {
		return item, nil
	}
	return nil, apperrors.ErrItemNotFound
}

func (f *fakeItems) GetMany(_ context.Context, kind models.ContentKind, ids []int64) (map[int64]models.Item, error) {
	out := map[int64]models.Item{}
	for _, id := range ids {
		if item, ok := f.w.items[kind.Type][id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (f *fakeItems) Create(_ context.Context, kind models.ContentKind, item models.Item) error {
	item.Base().ID = f.w.id()
	if f.w.items[kind.Type] == nil {
		f.w.items[kind.Type] = map[int64]models.Item{}
	}
	f.w.items[kind.Type][item.Base().ID] = item
	return nil
}

func (f *fakeItems) Update(_ context.Context, kind models.ContentKind, item models.Item) error {
	if _, ok := f.w.items[kind.Type][item.Base().ID]; !ok {
		return apperrors.ErrItemNotFound
	}
	f.w.items[kind.Type][item.Base().ID] = item
	return nil
}

func (f *fakeItems) Delete(_ context.Context, kind models.ContentKind, id int64) (string, error) {
	item, ok := f.w.items[kind.Type][id]
	if !ok {
		return "", apperrors.ErrItemNotFound
	}
	delete(f.w.items[kind.Type], id)
	return item.Payload(), nil
}

type fakeReviews struct {
	w         *world
	createErr error
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	r.ID = f.w.id()
	f.w.reviews = append(f.w.reviews, r)
	return nil
}

func (f *fakeReviews) LatestForCourse(_ context.Context, courseID int64, limit int) ([]*models.Review, error) {
	out := make([]*models.Review, 0)
	for i := len(f.w.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		if f.w.reviews[i].CourseID == courseID {
			out = append(out, f.w.reviews[i])
		}
	}
	return out, nil
}

func (f *fakeReviews) AllRatings(_ context.Context) ([]cluster.Rating, error) {
	out := make([]cluster.Rating, 0, len(f.w.reviews))
	for _, r := range f.w.reviews {
		out = append(out, cluster.Rating{UserID: r.UserID, CourseID: r.CourseID, Rating: float64(r.Rating)})
	}
	return out, nil
}

type fakeEnrollments struct{ w *world }

func (f *fakeEnrollments) Enroll(_ context.Context, courseID, studentID int64) (bool, error) {
	key := [2]int64{courseID, studentID}
	if f.w.enrollments[key] {
		return false, nil
	}
	f.w.enrollments[key] = true
	return true, nil
}

func (f *fakeEnrollments) IsEnrolled(_ context.Context, courseID, studentID int64) (bool, error) {
	return f.w.enrollments[[2]int64{courseID, studentID}], nil
}

type fakeClusters struct {
	w        *world
	replaced int
}

func (f *fakeClusters) Replace(_ context.Context, _ repositories.Querier, groups [][]int64) error {
	f.replaced++
	f.w.clusters = groups
	return nil
}

func (f *fakeClusters) Peers(_ context.Context, userID int64) ([]int64, bool, error) {
	for _, g := range f.w.clusters {
		for _, u := range g {
			if u == userID {
				peers := make([]int64, 0, len(g)-1)
				for _, p := range g {
					if p != userID {
						peers = append(peers, p)
					}
				}
				return peers, true, nil
			}
		}
	}
	return nil, false, nil
}

// fakeTx runs the function without a real transaction
type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	var tx pgx.Tx
	return fn(ctx, tx)
}

// fakeStorage records stored and deleted files
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFileWithPath(_ context.Context, fh *multipart.FileHeader, subPath string) (string, error) {
	url := "/media/" + subPath + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// countingUpdater counts cluster recomputes
type countingUpdater struct {
	calls int
	err   error
}

func (c *countingUpdater) UpdateClusters(context.Context) error {
	c.calls++
	return c.err
}
