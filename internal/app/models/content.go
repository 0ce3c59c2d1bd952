package models

import (
	"sort"
	"time"
)

// ContentType tags which item table a Content wrapper points into
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentImage ContentType = "image"
	ContentFile  ContentType = "file"
)

// Content is the ordered wrapper placing an item inside a module
type Content struct {
	ID          int64       `json:"id" db:"id"`
	ModuleID    int64       `json:"moduleId" db:"module_id"`
	ContentType ContentType `json:"contentType" db:"content_type"`
	ObjectID    int64       `json:"objectId" db:"object_id"`
	Order       int         `json:"order" db:"order"`

	Item Item `json:"item"`
}

// Item is implemented by every concrete content kind
type Item interface {
	Base() *ItemBase
	Payload() string
	SetPayload(value string)
}

// ItemBase holds the columns shared by all item tables
type ItemBase struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"ownerId" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (b *ItemBase) Base() *ItemBase { return b }

// Text is a markdown body; HTML is filled when rendered for display
type Text struct {
	ItemBase
	Content string `json:"content" db:"content"`
	HTML    string `json:"html,omitempty"`
}

func (t *Text) Payload() string         { return t.Content }
func (t *Text) SetPayload(value string) { t.Content = value }

type Video struct {
	ItemBase
	URL string `json:"url" db:"url"`
}

func (v *Video) Payload() string         { return v.URL }
func (v *Video) SetPayload(value string) { v.URL = value }

type Image struct {
	ItemBase
	File string `json:"file" db:"file"`
}

func (i *Image) Payload() string         { return i.File }
func (i *Image) SetPayload(value string) { i.File = value }

type File struct {
	ItemBase
	File string `json:"file" db:"file"`
}

func (f *File) Payload() string         { return f.File }
func (f *File) SetPayload(value string) { f.File = value }

// ContentKind describes how one content type is stored and edited
type ContentKind struct {
	Type ContentType
	// Table is the item table name
	Table string
	// PayloadField is both the column and the form field carrying the payload
	PayloadField string
	// Upload marks kinds whose payload arrives as a multipart file
	Upload bool
	New    func() Item
}

// EditableFields lists the form fields of an item; owner, order and timestamps are excluded
func (k ContentKind) EditableFields() []string {
	return []string{"title", k.PayloadField}
}

var contentKinds = map[ContentType]ContentKind{
	ContentText:  {Type: ContentText, Table: "texts", PayloadField: "content", New: func() Item { return &Text{} }},
	ContentVideo: {Type: ContentVideo, Table: "videos", PayloadField: "url", New: func() Item { return &Video{} }},
	ContentImage: {Type: ContentImage, Table: "images", PayloadField: "file", Upload: true, New: func() Item { return &Image{} }},
	ContentFile:  {Type: ContentFile, Table: "files", PayloadField: "file", Upload: true, New: func() Item { return &File{} }},
}

// ResolveContentType maps a tag onto its kind. Unknown tags report false.
func ResolveContentType(tag string) (ContentKind, bool) {
	kind, ok := contentKinds[ContentType(tag)]
	return kind, ok
}

// ContentKinds returns every known kind sorted by tag
func ContentKinds() []ContentKind {
	kinds := make([]ContentKind, 0, len(contentKinds))
	for _, k := range contentKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Type < kinds[j].Type })
	return kinds
}
