package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
)

// Multipart form field names. Each non-file group travels as an embedded
// JSON blob under its group name; every file is appended under FilesField.
const (
	PersonField           = "person"
	AttributesField       = "attributes"
	EntrepreneurshipField = "entrepreneurship"
	FilesField            = "files"
)

// FileContent pairs a staged file's metadata with its bytes for encoding.
type FileContent struct {
	Name        string
	ContentType string
	Data        []byte
}

// Encoded is a request body ready for transport.
type Encoded struct {
	Body        []byte
	ContentType string
}

// IsMultipart reports whether the body was multipart-encoded.
func (e Encoded) IsMultipart() bool {
	return e.ContentType != "application/json"
}

// Encode makes the transport decision once, based solely on whether the file
// list is non-empty: with files the whole payload is multipart-encoded, each
// group stringified as JSON; without files it is a plain JSON body.
func Encode(groups map[string]interface{}, files []FileContent) (Encoded, error) {
	if len(files) == 0 {
		body, err := json.Marshal(groups)
		if err != nil {
			return Encoded{}, fmt.Errorf("encode json payload: %w", err)
		}
		return Encoded{Body: body, ContentType: "application/json"}, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, group := range groups {
		if group == nil {
			continue
		}
		blob, err := json.Marshal(group)
		if err != nil {
			return Encoded{}, fmt.Errorf("encode group %s: %w", name, err)
		}
		if err := w.WriteField(name, string(blob)); err != nil {
			return Encoded{}, fmt.Errorf("write group %s: %w", name, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(FilesField, f.Name)
		if err != nil {
			return Encoded{}, fmt.Errorf("create file part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return Encoded{}, fmt.Errorf("write file part %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return Encoded{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	return Encoded{Body: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

// Groups flattens an entrepreneur update payload into its non-nil groups.
func (p UpdateEntrepreneurPayload) Groups() map[string]interface{} {
	groups := map[string]interface{}{}
	if p.Person != nil {
		groups[PersonField] = p.Person
	}
	if p.Attributes != nil {
		groups[AttributesField] = p.Attributes
	}
	if p.Entrepreneurship != nil {
		groups[EntrepreneurshipField] = p.Entrepreneurship
	}
	return groups
}

// Groups flattens an entrepreneur create payload into its groups.
func (p CreateEntrepreneurPayload) Groups() map[string]interface{} {
	return map[string]interface{}{
		PersonField:           p.Person,
		AttributesField:       p.Attributes,
		EntrepreneurshipField: p.Entrepreneurship,
	}
}

// Groups flattens a volunteer update payload into its non-nil groups.
func (p UpdateVolunteerPayload) Groups() map[string]interface{} {
	groups := map[string]interface{}{}
	if p.Person != nil {
		groups[PersonField] = p.Person
	}
	if p.Attributes != nil {
		groups[AttributesField] = p.Attributes
	}
	return groups
}

// Groups flattens a volunteer create payload into its groups.
func (p CreateVolunteerPayload) Groups() map[string]interface{} {
	return map[string]interface{}{
		PersonField:     p.Person,
		AttributesField: p.Attributes,
	}
}
