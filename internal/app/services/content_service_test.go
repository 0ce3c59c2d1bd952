package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

type contentFixture struct {
	w        *world
	contents *fakeContents
	storage  *fakeStorage
	svc      ContentService
	module   *models.Module
}

func newContentFixture() *contentFixture {
	w := newWorld()
	s := w.addSubject("Programming", "programming")
	course := w.addCourse(1, s.ID, "go")
	contents := &fakeContents{w: w}
	storage := &fakeStorage{}
	return &contentFixture{
		w:        w,
		contents: contents,
		storage:  storage,
		svc:      NewContentService(&fakeCourses{w: w}, &fakeModules{w: w}, contents, &fakeItems{w: w}, storage, testLogger),
		module:   w.addModule(course.ID, 0),
	}
}

func mustKind(t *testing.T, tag string) models.ContentKind {
	t.Helper()
	kind, ok := models.ResolveContentType(tag)
	require.True(t, ok)
	return kind
}

func TestContentFormUnknownType(t *testing.T) {
	f := newContentFixture()
	_, err := f.svc.Form(context.Background(), f.module.ID, "audio", nil, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestContentFormForeignModule(t *testing.T) {
	f := newContentFixture()
	_, err := f.svc.Form(context.Background(), f.module.ID, "text", nil, 2)
	assert.ErrorIs(t, err, apperrors.ErrModuleNotFound)
}

func TestContentFormFields(t *testing.T) {
	f := newContentFixture()
	form, err := f.svc.Form(context.Background(), f.module.ID, "image", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "file"}, form.Fields)
	assert.True(t, form.Upload)
	assert.Nil(t, form.Item)
}

func TestContentFormItemOfOtherOwner(t *testing.T) {
	f := newContentFixture()
	item := f.w.addItem(mustKind(t, "text"), 2, "secret")
	id := item.Base().ID

	_, err := f.svc.Form(context.Background(), f.module.ID, "text", &id, 1)
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
}

func TestSaveCreatesItemAndWrapperAtEnd(t *testing.T) {
	f := newContentFixture()
	existing := f.w.addItem(mustKind(t, "text"), 1, "first")
	f.w.addContent(f.module.ID, mustKind(t, "text"), existing.Base().ID, 4)

	item, err := f.svc.Save(context.Background(), SaveContentInput{
		ModuleID: f.module.ID, Tag: "text", OwnerID: 1, Title: " Intro ", Payload: "# Hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "Intro", item.Base().Title)
	assert.Equal(t, int64(1), item.Base().OwnerID)

	list, _ := f.contents.ListByModule(context.Background(), f.module.ID)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[1].Order)
	assert.Equal(t, item.Base().ID, list[1].ObjectID)
	assert.Equal(t, models.ContentText, list[1].ContentType)
}

func TestSaveFirstContentGetsOrderZero(t *testing.T) {
	f := newContentFixture()
	_, err := f.svc.Save(context.Background(), SaveContentInput{
		ModuleID: f.module.ID, Tag: "video", OwnerID: 1, Title: "Clip", Payload: "https://youtu.be/x",
	})
	require.NoError(t, err)

	list, _ := f.contents.ListByModule(context.Background(), f.module.ID)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Order)
}

func TestSaveInvalidInputWritesNothing(t *testing.T) {
	f := newContentFixture()
	_, err := f.svc.Save(context.Background(), SaveContentInput{
		ModuleID: f.module.ID, Tag: "video", OwnerID: 1, Title: "", Payload: "not a url",
	})
	require.Error(t, err)
	fields := apperrors.FieldErrors(err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "url")
	assert.Empty(t, f.w.contents)
}

func TestSaveUpdateKeepsWrapper(t *testing.T) {
	f := newContentFixture()
	item := f.w.addItem(mustKind(t, "text"), 1, "old")
	f.w.addContent(f.module.ID, mustKind(t, "text"), item.Base().ID, 0)
	id := item.Base().ID

	updated, err := f.svc.Save(context.Background(), SaveContentInput{
		ModuleID: f.module.ID, Tag: "text", ItemID: &id, OwnerID: 1, Title: "New", Payload: "new body",
	})
	require.NoError(t, err)
	assert.Equal(t, "new body", updated.Payload())
	assert.Len(t, f.w.contents, 1)
}

func TestSaveUploadReplacesStoredFile(t *testing.T) {
	f := newContentFixture()
	item := f.w.addItem(mustKind(t, "image"), 1, "/media/images/old.png")
	id := item.Base().ID

	updated, err := f.svc.Save(context.Background(), SaveContentInput{
		ModuleID: f.module.ID, Tag: "image", ItemID: &id, OwnerID: 1, Title: "Pic",
		Upload: &multipart.FileHeader{Filename: "new.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/images/new.png", updated.Payload())
	assert.Equal(t, []string{"/media/images/old.png"}, f.storage.deleted)
}

func TestSaveUploadRequiredOnCreate(t *testing.T) {
	f := newContentFixture()
	_, err := f.svc.Save(context.Background(), SaveContentInput{ModuleID: f.module.ID, Tag: "file", OwnerID: 1, Title: "Doc"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteRemovesItemThenWrapper(t *testing.T) {
	f := newContentFixture()
	kind := mustKind(t, "file")
	item := f.w.addItem(kind, 1, "/media/files/a.pdf")
	c := f.w.addContent(f.module.ID, kind, item.Base().ID, 0)

	moduleID, err := f.svc.Delete(context.Background(), c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, f.module.ID, moduleID)
	assert.Empty(t, f.w.contents)
	assert.Empty(t, f.w.items[kind.Type])
	assert.Equal(t, []string{"/media/files/a.pdf"}, f.storage.deleted)
}

func TestDeleteInterruptedLeavesWrapper(t *testing.T) {
	f := newContentFixture()
	kind := mustKind(t, "text")
	item := f.w.addItem(kind, 1, "body")
	c := f.w.addContent(f.module.ID, kind, item.Base().ID, 0)
	f.contents.deleteErr = errors.New("connection reset")

	_, err := f.svc.Delete(context.Background(), c.ID, 1)
	require.Error(t, err)
	assert.Empty(t, f.w.items[kind.Type])
	assert.Contains(t, f.w.contents, c.ID)
}

func TestDeleteForeignContent(t *testing.T) {
	f := newContentFixture()
	kind := mustKind(t, "text")
	item := f.w.addItem(kind, 1, "body")
	c := f.w.addContent(f.module.ID, kind, item.Base().ID, 0)

	_, err := f.svc.Delete(context.Background(), c.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
	assert.Len(t, f.w.contents, 1)
}

func TestModuleContentsHydratesItems(t *testing.T) {
	f := newContentFixture()
	text := mustKind(t, "text")
	video := mustKind(t, "video")
	t1 := f.w.addItem(text, 1, "**bold**")
	v1 := f.w.addItem(video, 1, "https://example.com/v")
	f.w.addContent(f.module.ID, video, v1.Base().ID, 1)
	f.w.addContent(f.module.ID, text, t1.Base().ID, 0)
	f.w.addContent(f.module.ID, text, 424242, 2)

	resp, err := f.svc.ModuleContents(context.Background(), f.module.ID, 1)
	require.NoError(t, err)
	require.Len(t, resp.Contents, 3)

	rendered, ok := resp.Contents[0].Item.(*models.Text)
	require.True(t, ok)
	assert.Contains(t, rendered.HTML, "<strong>bold</strong>")
	assert.Equal(t, v1.Base().ID, resp.Contents[1].Item.Base().ID)
	assert.Nil(t, resp.Contents[2].Item)
	assert.Equal(t, []models.ContentType{models.ContentFile, models.ContentImage, models.ContentText, models.ContentVideo}, resp.ContentTypes)
}
