package chi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// UploadJSON handles POST /upload/json with a multipart "file" field.
func (s *Server) UploadJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Missing multipart field \"file\"")
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "File must be a JSON file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	set, err := resource.ParseImport(data)
	if err != nil {
		requestLogger(r, s.logger).Warn("Rejected upload", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid JSON file")
		return
	}

	writeJSON(w, http.StatusOK, importToDTO(s.catalog.Import(r.Context(), set)))
}
