package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"portfolio/internal/media"
)

// uploadRequest builds a multipart upload of size bytes declared as
// contentType.
func uploadRequest(t *testing.T, h *harness, filename, contentType string, size int, folder string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			t.Fatal(err)
		}
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xAB}, size)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := h.request(t, http.MethodPost, "/admin/uploads", nil)
	r.Body = io.NopCloser(&buf)
	r.ContentLength = int64(buf.Len())
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUploadSizeBoundary(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		status int
	}{
		{"exactly the limit", media.MaxImageSize, http.StatusCreated},
		{"one byte over", media.MaxImageSize + 1, http.StatusRequestEntityTooLarge},
		{"small", 10, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			rr := httptest.NewRecorder()
			h.admin.Upload(rr, uploadRequest(t, h, "photo.PNG", "image/png", tt.size, ""))
			expectStatus(t, rr, tt.status)

			if tt.status != http.StatusCreated {
				if h.objects.Count() != 0 {
					t.Error("storage was called for a rejected upload")
				}
				return
			}
			got := decodeObject(t, rr)
			path, _ := got["path"].(string)
			if !strings.HasPrefix(path, "images/") || !strings.HasSuffix(path, ".png") {
				t.Errorf("path = %q", path)
			}
			if got["url"] != "https://cdn.example.test/"+path {
				t.Errorf("url = %v", got["url"])
			}
			if len(h.objects.Objects[path]) != tt.size {
				t.Errorf("stored %d bytes, want %d", len(h.objects.Objects[path]), tt.size)
			}
		})
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	h := newHarness(t)
	rr := httptest.NewRecorder()
	h.admin.Upload(rr, uploadRequest(t, h, "notes.pdf", "application/pdf", 100, ""))
	expectStatus(t, rr, http.StatusBadRequest)
	if code := decodeFailure(t, rr).Code; code != "validation_failed" {
		t.Errorf("code = %q", code)
	}
	if h.objects.Count() != 0 {
		t.Error("storage was called for a non-image")
	}
}

func TestUploadFolderAndStorageFailure(t *testing.T) {
	h := newHarness(t)
	rr := httptest.NewRecorder()
	h.admin.Upload(rr, uploadRequest(t, h, "me.jpg", "image/jpeg", 64, "avatars"))
	expectStatus(t, rr, http.StatusCreated)
	if path := decodeObject(t, rr)["path"].(string); !strings.HasPrefix(path, "avatars/") {
		t.Errorf("path = %q", path)
	}

	h.objects.Err = errors.New("bucket gone")
	rr = httptest.NewRecorder()
	h.admin.Upload(rr, uploadRequest(t, h, "me.jpg", "image/jpeg", 64, ""))
	expectStatus(t, rr, http.StatusInternalServerError)
	if body := decodeFailure(t, rr); body.Code != "storage_error" || body.Details != "bucket gone" {
		t.Errorf("body = %+v", body)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	h := newHarness(t)
	h.admin = NewAdmin(h.stores(), h.responses, nil)

	rr := httptest.NewRecorder()
	h.admin.Upload(rr, uploadRequest(t, h, "a.png", "image/png", 10, ""))
	expectStatus(t, rr, http.StatusServiceUnavailable)

	expectStatus(t, h.do(t, h.admin.DeleteUpload, http.MethodDelete, "/admin/uploads?path=images/a.png", nil), http.StatusServiceUnavailable)
}

func TestDeleteUpload(t *testing.T) {
	h := newHarness(t)
	rr := httptest.NewRecorder()
	h.admin.Upload(rr, uploadRequest(t, h, "a.png", "image/png", 10, ""))
	got := decodeObject(t, rr)

	rr = h.do(t, h.admin.DeleteUpload, http.MethodDelete, "/admin/uploads?path="+got["url"].(string), nil)
	expectStatus(t, rr, http.StatusOK)
	if _, ok := h.objects.Objects[got["path"].(string)]; ok {
		t.Error("object still stored after delete")
	}

	expectStatus(t, h.do(t, h.admin.DeleteUpload, http.MethodDelete, "/admin/uploads", nil), http.StatusBadRequest)
	expectStatus(t, h.do(t, h.admin.DeleteUpload, http.MethodDelete, "/admin/uploads?path=https://elsewhere.test/x.png", nil), http.StatusBadRequest)
}
