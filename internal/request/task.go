package request

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Kind is the body encoding of a Task.
type Kind int

const (
	KindPlain Kind = iota
	KindJSON
	KindURL
	KindMultipart
)

// Part is one multipart/form-data section.
type Part struct {
	Name     string
	FileName string
	MimeType string
	Data     []byte
}

// Task describes how parameters travel with a request.
type Task struct {
	kind   Kind
	params map[string]any
	parts  []Part
	err    error
}

// Kind reports the task's encoding.
func (t Task) Kind() Kind { return t.kind }

// Parts returns the multipart sections of an upload task.
func (t Task) Parts() []Part { return t.parts }

// Err reports a failure captured while the task was built, such as an
// unreadable upload file.
func (t Task) Err() error { return t.err }

// Plain sends no body.
func Plain() Task {
	return Task{kind: KindPlain}
}

// JSONBody encodes params as a JSON object body.
func JSONBody(params map[string]any) Task {
	return Task{kind: KindJSON, params: params}
}

// URLParams encodes params in the query string for GET, HEAD and DELETE and as
// a form body otherwise.
func URLParams(params map[string]any) Task {
	return Task{kind: KindURL, params: params}
}

// Params picks JSONBody when isBody is set and URLParams otherwise.
func Params(params map[string]any, isBody bool) Task {
	if isBody {
		return JSONBody(params)
	}
	return URLParams(params)
}

// Upload sends the file at path as the multipart field "file".
func Upload(path, fileName, mimeType string) Task {
	return UploadWithParams(path, fileName, mimeType, nil)
}

// UploadWithParams sends the file at path as the multipart field "file" plus
// one text field per extra entry. Only string, integer and bool values are
// sent; other types are skipped. An empty mimeType is inferred from the file
// extension.
func UploadWithParams(path, fileName, mimeType string, extra map[string]any) Task {
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{kind: KindMultipart, err: fmt.Errorf("read upload file: %w", err)}
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = filepath.Base(path)
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = MimeType(path)
	}

	parts := []Part{{Name: "file", FileName: fileName, MimeType: mimeType, Data: data}}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		text, ok := formValue(extra[key])
		if !ok {
			slog.Warn("skipping unsupported multipart value", "key", key, "type", fmt.Sprintf("%T", extra[key]))
			continue
		}
		parts = append(parts, Part{Name: key, Data: []byte(text)})
	}
	return Task{kind: KindMultipart, parts: parts}
}

func formValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	default:
		return "", false
	}
}

var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"txt":  "text/plain",
	"json": "application/json",
	"xml":  "application/xml",
	"csv":  "text/csv",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"mp4":  "video/mp4",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
	"7z":   "application/x-7z-compressed",
	"gz":   "application/gzip",
}

// MimeType maps a file extension to a content type, defaulting to
// application/octet-stream.
func MimeType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
