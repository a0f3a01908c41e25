// Package request describes API calls declaratively and turns them into
// *http.Request values.
package request

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
	"sort"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded; charset=utf-8"
)

// Target is one API call relative to the SDK base URL.
type Target struct {
	Method string
	// Path is appended to the base URL, e.g. "/user/profile".
	Path string
	Task Task
	// Headers are applied after the SDK's own headers and win on conflict.
	Headers map[string]string
	// SkipAuth omits the Authorization header, for sign-in style endpoints.
	SkipAuth bool
}

// Get returns a plain GET target.
func Get(path string) Target {
	return Target{Method: http.MethodGet, Path: path, Task: Plain()}
}

// Post returns a POST target with a JSON body.
func Post(path string, params map[string]any) Target {
	return Target{Method: http.MethodPost, Path: path, Task: JSONBody(params)}
}

// Build resolves t against baseURL and encodes its task.
func Build(ctx context.Context, baseURL string, t Target) (*http.Request, error) {
	if err := t.Task.Err(); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	// The path may carry its own query string; JoinPath would escape the '?'.
	ref, err := url.Parse(strings.TrimSpace(t.Path))
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", t.Path, err)
	}
	if ref.Scheme != "" || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be relative to the base url", t.Path)
	}
	u := base.JoinPath(ref.Path)
	u.RawQuery = ref.RawQuery

	method := strings.ToUpper(strings.TrimSpace(t.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	contentType := ContentTypeJSON

	switch t.Task.kind {
	case KindJSON:
		params := t.Task.params
		if params == nil {
			params = map[string]any{}
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		body = bytes.NewReader(raw)
	case KindURL:
		values := encodeForm(t.Task.params)
		if carriesQuery(method) {
			q := u.Query()
			for k, vs := range values {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			u.RawQuery = q.Encode()
		} else {
			body = strings.NewReader(values.Encode())
			contentType = ContentTypeForm
		}
	case KindMultipart:
		body, contentType, err = encodeMultipart(t.Task.parts)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func carriesQuery(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	default:
		return false
	}
}

// encodeForm flattens params with bracket notation: nested maps become
// key[sub], slices become repeated key[], booleans become 1 or 0.
func encodeForm(params map[string]any) url.Values {
	values := url.Values{}
	for _, k := range sortedKeys(params) {
		appendForm(values, k, params[k])
	}
	return values
}

func appendForm(values url.Values, key string, v any) {
	switch t := v.(type) {
	case nil:
		values.Add(key, "")
	case map[string]any:
		for _, sub := range sortedKeys(t) {
			appendForm(values, key+"["+sub+"]", t[sub])
		}
	case []any:
		for _, item := range t {
			appendForm(values, key+"[]", item)
		}
	case []string:
		for _, item := range t {
			values.Add(key+"[]", item)
		}
	case bool:
		if t {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	default:
		values.Add(key, fmt.Sprint(t))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func encodeMultipart(parts []Part) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		var (
			pw  io.Writer
			err error
		)
		if p.FileName == "" {
			pw, err = w.CreateFormField(p.Name)
		} else {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(p.Name), quoteEscaper.Replace(p.FileName)))
			if p.MimeType != "" {
				h.Set("Content-Type", p.MimeType)
			}
			pw, err = w.CreatePart(h)
		}
		if err != nil {
			return nil, "", fmt.Errorf("create multipart field %s: %w", p.Name, err)
		}
		if _, err := pw.Write(p.Data); err != nil {
			return nil, "", fmt.Errorf("write multipart field %s: %w", p.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
