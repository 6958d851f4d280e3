package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/gabriel-vasile/mimetype"
)

const multipartMemory = 8 << 20

// uploadField describes one accepted multipart file field. kinds maps a
// lower-case extension to the MIME type its content must sniff as.
type uploadField struct {
	name     string
	maxCount int
	kinds    map[string]string
	rejected string
}

var (
	imageKinds = map[string]string{
		".jpeg": "image/jpeg",
		".jpg":  "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
	}
	idProofKinds = map[string]string{
		".jpeg": "image/jpeg",
		".jpg":  "image/jpeg",
		".png":  "image/png",
		".pdf":  "application/pdf",
	}

	scholarshipCertificateField = uploadField{name: "scholarshipCertificate", maxCount: 1, kinds: imageKinds, rejected: "Images Only! (jpeg, jpg, png, gif)"}
	ownerIDProofField           = uploadField{name: "ownerIDProof", maxCount: 1, kinds: idProofKinds, rejected: "Invalid ID Proof file type! (jpeg, jpg, png, pdf)"}
	propertyPhotosField         = uploadField{name: "propertyPhotos", maxCount: domain.MaxPhotos, kinds: imageKinds, rejected: "Images Only! (jpeg, jpg, png, gif)"}
)

func uploadError(format string, args ...interface{}) error {
	return domain.Errorf(domain.ErrInvalidInput, "File Upload Error: "+format, args...)
}

// uploadForm is a parsed form: plain values plus checked files per field.
type uploadForm struct {
	values url.Values
	files  map[string][]domain.Upload
}

func (f *uploadForm) first(field string) *domain.Upload {
	if fs := f.files[field]; len(fs) > 0 {
		return &fs[0]
	}
	return nil
}

// parseUploadForm reads a multipart or url-encoded body. Files are only
// accepted for the listed fields, are at most maxFileBytes each and must pass
// both the extension and the content sniffing check.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxFileBytes int64, fields ...uploadField) (*uploadForm, error) {
	var maxCount int64
	for _, f := range fields {
		maxCount += int64(f.maxCount)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCount*maxFileBytes+multipartMemory)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, uploadError("%v", bodyError(err))
		}
		return &uploadForm{values: r.PostForm, files: map[string][]domain.Upload{}}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, uploadError("%v", bodyError(err))
	}
	defer r.MultipartForm.RemoveAll()

	allowed := make(map[string]uploadField, len(fields))
	for _, f := range fields {
		allowed[f.name] = f
	}

	out := &uploadForm{values: url.Values(r.MultipartForm.Value), files: map[string][]domain.Upload{}}
	for name, headers := range r.MultipartForm.File {
		field, ok := allowed[name]
		if !ok {
			return nil, uploadError("Unexpected field %s", name)
		}
		if len(headers) > field.maxCount {
			return nil, uploadError("Too many files for %s (max %d)", name, field.maxCount)
		}
		for _, fh := range headers {
			up, err := readUpload(field, fh, maxFileBytes)
			if err != nil {
				return nil, err
			}
			out.files[name] = append(out.files[name], up)
		}
	}
	return out, nil
}

func readUpload(field uploadField, fh *multipart.FileHeader, maxFileBytes int64) (domain.Upload, error) {
	if fh.Size > maxFileBytes {
		return domain.Upload{}, uploadError("File too large (max %d bytes)", maxFileBytes)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := field.kinds[ext]
	if !ok {
		return domain.Upload{}, uploadError("%s", field.rejected)
	}

	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, uploadError("cannot read %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxFileBytes+1))
	if err != nil {
		return domain.Upload{}, uploadError("cannot read %s", fh.Filename)
	}
	if int64(len(data)) > maxFileBytes {
		return domain.Upload{}, uploadError("File too large (max %d bytes)", maxFileBytes)
	}

	mt := mimetype.Detect(data)
	if !mt.Is(want) {
		return domain.Upload{}, uploadError("%s", field.rejected)
	}
	return domain.Upload{Field: field.name, Ext: ext, ContentType: want, Data: data}, nil
}

func bodyError(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	}
	return err.Error()
}
