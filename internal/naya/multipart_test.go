package naya_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"naya-cli/internal/naya"
)

func TestEncodeMultipart(t *testing.T) {
	body, contentType, err := naya.EncodeMultipart(
		map[string]string{"review_id": "r1", "caption": "the top", "empty": ""},
		"photo_file", "view.jpg", []byte("jpeg bytes"),
	)
	if err != nil {
		t.Fatalf("EncodeMultipart() error = %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parsing content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("media type = %q", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	parts := map[string]string{}
	fileName := ""
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading part: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts[part.FormName()] = string(data)
		if part.FormName() == "photo_file" {
			fileName = part.FileName()
		}
	}

	if parts["review_id"] != "r1" || parts["caption"] != "the top" {
		t.Errorf("fields = %v", parts)
	}
	if _, ok := parts["empty"]; ok {
		t.Error("empty field was encoded")
	}
	if parts["photo_file"] != "jpeg bytes" {
		t.Errorf("file content = %q", parts["photo_file"])
	}
	if fileName != "view.jpg" {
		t.Errorf("file name = %q", fileName)
	}
}
