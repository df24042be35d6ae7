package library

import (
	"errors"
	"strconv"
	"strings"
)

// ErrChapterNotFound is returned when a chapter reference matches nothing in
// a book's spine or points outside it.
var ErrChapterNotFound = errors.New("chapter not found")

// ChapterRef is a parsed chapter reference: either a direct spine index or a
// chapter filename. Parsing happens once at the request boundary; resolution
// is pure.
type ChapterRef struct {
	index   int
	name    string
	byIndex bool
}

// ByIndex makes a direct-index reference.
func ByIndex(index int) ChapterRef {
	return ChapterRef{index: index, byIndex: true}
}

// ByName makes a filename reference.
func ByName(name string) ChapterRef {
	return ChapterRef{name: name}
}

// ParseChapterRef classifies a raw reference. Non-negative integers become
// index references; everything else is treated as a filename.
func ParseChapterRef(raw string) ChapterRef {
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return ByIndex(n)
	}
	return ByName(raw)
}

func (r ChapterRef) String() string {
	if r.byIndex {
		return strconv.Itoa(r.index)
	}
	return r.name
}

// ResolveChapter turns a chapter reference into a canonical spine index.
//
// Index references are bounds-checked against the spine; a stale link or a
// crafted request can name an index past the end. Filename references match
// spine hrefs exactly first, then by suffix, first spine match winning.
func ResolveChapter(book *Book, ref ChapterRef) (int, error) {
	if ref.byIndex {
		if ref.index < 0 || ref.index >= len(book.Spine) {
			return 0, ErrChapterNotFound
		}
		return ref.index, nil
	}

	for idx, item := range book.Spine {
		if item.Href == ref.name {
			return idx, nil
		}
	}
	for idx, item := range book.Spine {
		if strings.HasSuffix(item.Href, ref.name) {
			return idx, nil
		}
	}
	return 0, ErrChapterNotFound
}
