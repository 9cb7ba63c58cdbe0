package validation

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxFileSize = 10 << 20
	// MaxRequestSize fits twenty full-size files plus the other form fields.
	MaxRequestSize = 21 * MaxFileSize
)

// FileRules bound a multi-file form field.
type FileRules struct {
	MaxCount int
	MaxSize  int64
	// Allowed maps a lowercase extension to the MIME types accepted for it.
	Allowed map[string][]string
}

var (
	imageTypes = map[string][]string{
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	}
	documentTypes = map[string][]string{
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
)

var (
	AttachmentRules = FileRules{MaxCount: 20, MaxSize: MaxFileSize, Allowed: merge(imageTypes, documentTypes)}
	ImageRules      = FileRules{MaxCount: 20, MaxSize: MaxFileSize, Allowed: imageTypes}
	DocumentRules   = FileRules{MaxCount: 20, MaxSize: MaxFileSize, Allowed: documentTypes}
)

func merge(sets ...map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// Check validates files against r and records failures under field.
func (r FileRules) Check(field string, files []*multipart.FileHeader, errs FieldErrors) {
	if r.MaxCount > 0 && len(files) > r.MaxCount {
		errs.Add(field, fmt.Sprintf("Au plus %d fichiers par envoi.", r.MaxCount))
	}
	for _, f := range files {
		if f.Size > r.MaxSize {
			errs.Add(field, fmt.Sprintf("Le fichier %s dépasse %d Mo.", f.Filename, r.MaxSize>>20))
		}
		if !r.allowed(f) {
			errs.Add(field, fmt.Sprintf("Type de fichier non autorisé : %s.", f.Filename))
		}
	}
}

func (r FileRules) allowed(f *multipart.FileHeader) bool {
	mimes, ok := r.Allowed[strings.ToLower(filepath.Ext(f.Filename))]
	if !ok {
		return false
	}
	ct := f.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		return true
	}
	ct = strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
	for _, m := range mimes {
		if strings.EqualFold(ct, m) {
			return true
		}
	}
	return false
}
