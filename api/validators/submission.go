package validators

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
)

const (
	// multipartMemory is how much of a multipart body is held in memory
	// before parts spill to temp files.
	multipartMemory = 32 << 20

	expectedUpdatedAtKey = "expectedUpdatedAt"
)

// DecodeSubmission reads a create or update body. multipart/form-data and
// urlencoded bodies carry files and scalar values; anything else is decoded
// as a JSON object. Keys the form does not declare are ignored.
func DecodeSubmission(r *http.Request, form content.Form) (content.Submission, error) {
	sub := content.Submission{Values: map[string]string{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	switch mediaType {
	case "multipart/form-data":
		err = decodeMultipart(r, form, &sub)
	case "application/x-www-form-urlencoded":
		err = decodeURLEncoded(r, form, &sub)
	default:
		err = decodeJSONSubmission(r, form, &sub)
	}
	if err != nil {
		return content.Submission{}, err
	}

	if raw := strings.TrimSpace(r.Header.Get("If-Unmodified-Since")); raw != "" {
		at, err := http.ParseTime(raw)
		if err != nil {
			return content.Submission{}, pkgerrors.New(pkgerrors.CodeValidation, "If-Unmodified-Since must be an HTTP date")
		}
		at = at.UTC()
		sub.UnmodifiedSince = &at
	}
	return sub, nil
}

func decodeMultipart(r *http.Request, form content.Form, sub *content.Submission) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			return errTooLarge(err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	values := r.MultipartForm.Value
	if err := collectValues(form, sub, func(key string) []string { return values[key] }); err != nil {
		return err
	}

	for _, key := range form.Attachments {
		for _, header := range r.MultipartForm.File[key] {
			if header.Size == 0 && header.Filename == "" {
				continue
			}
			if sub.Files == nil {
				sub.Files = map[string][]assets.FileUpload{}
			}
			sub.Files[key] = append(sub.Files[key], fileUpload(header))
		}
	}
	return nil
}

func decodeURLEncoded(r *http.Request, form content.Form, sub *content.Submission) error {
	if err := r.ParseForm(); err != nil {
		if tooLarge(err) {
			return errTooLarge(err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return collectValues(form, sub, func(key string) []string { return r.PostForm[key] })
}

func collectValues(form content.Form, sub *content.Submission, get func(string) []string) error {
	for _, key := range form.Fields {
		if vals := get(key); len(vals) > 0 {
			sub.Values[key] = vals[0]
		}
	}
	for _, key := range form.Attachments {
		removalKey := content.RemovalKey(key)
		var urls []string
		for _, raw := range get(removalKey) {
			parsed, err := parseRemovals(raw)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, removalKey+" must be a URL list").WithDetails(map[string]any{"field": removalKey})
			}
			urls = append(urls, parsed...)
		}
		addRemovals(sub, key, urls)
	}
	if vals := get(expectedUpdatedAtKey); len(vals) > 0 {
		return setExpected(sub, vals[0])
	}
	return nil
}

func decodeJSONSubmission(r *http.Request, form content.Form, sub *content.Submission) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if tooLarge(err) {
			return errTooLarge(err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request")
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}

	for _, key := range form.Fields {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		value, present, err := scalar(msg)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, key+" must be a string, number, or boolean").WithDetails(map[string]any{"field": key})
		}
		if present {
			sub.Values[key] = value
		}
	}

	for _, key := range form.Attachments {
		removalKey := content.RemovalKey(key)
		msg, ok := raw[removalKey]
		if !ok {
			continue
		}
		urls, err := jsonRemovals(msg)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, removalKey+" must be a URL list").WithDetails(map[string]any{"field": removalKey})
		}
		addRemovals(sub, key, urls)
	}

	if msg, ok := raw[expectedUpdatedAtKey]; ok {
		value, present, err := scalar(msg)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, expectedUpdatedAtKey+" must be a timestamp")
		}
		if present {
			return setExpected(sub, value)
		}
	}
	return nil
}

// scalar flattens a JSON value to the string form used by multipart bodies.
// null reports not present.
func scalar(msg json.RawMessage) (string, bool, error) {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return "", false, err
	}
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	case float64:
		return strings.TrimSpace(string(msg)), true, nil
	default:
		return "", false, errors.New("not a scalar")
	}
}

// jsonRemovals accepts an array of URLs or a string holding one.
func jsonRemovals(msg json.RawMessage) ([]string, error) {
	var urls []string
	if err := json.Unmarshal(msg, &urls); err == nil {
		return urls, nil
	}
	var single *string
	if err := json.Unmarshal(msg, &single); err != nil {
		return nil, err
	}
	if single == nil {
		return nil, nil
	}
	return parseRemovals(*single)
}

// parseRemovals reads a form value that is either a JSON array of URLs or a
// single URL.
func parseRemovals(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			return nil, err
		}
		return urls, nil
	}
	return []string{raw}, nil
}

func addRemovals(sub *content.Submission, key string, urls []string) {
	var cleaned []string
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return
	}
	if sub.Removals == nil {
		sub.Removals = map[string][]string{}
	}
	sub.Removals[key] = append(sub.Removals[key], cleaned...)
}

func setExpected(sub *content.Submission, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, expectedUpdatedAtKey+" must be an RFC 3339 timestamp").WithDetails(map[string]any{"field": expectedUpdatedAtKey})
	}
	at = at.UTC()
	sub.ExpectedUpdatedAt = &at
	return nil
}

func fileUpload(header *multipart.FileHeader) assets.FileUpload {
	return assets.FileUpload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (assets.File, error) {
			return header.Open()
		},
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func errTooLarge(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "request body too large")
}
