package api

import (
	"encoding/json"
	"net/http"

	"statwizard/domain/tabular"
	"statwizard/internal"
	"statwizard/internal/errors"
	"statwizard/internal/profile"
)

const maxMultipartMemory = 64 << 20

// processResponse is the pipeline result plus the advisory local column
// classification the wizard shows while the remote classifier responds.
type processResponse struct {
	tabular.ProcessedFileResult
	ColumnProfiles map[string]profile.ColumnProfile `json:"column_profiles,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate runs pre-parse validation only
func (a *App) handleValidate(w http.ResponseWriter, r *http.Request) {
	file, tier, ok := a.uploadFromRequest(w, r)
	if !ok {
		return
	}

	result := a.validator.ValidateFile(file, tier)
	writeJSON(w, http.StatusOK, result)
}

// handleProcess runs the full validate→parse→normalize pipeline. Parses are
// bounded by the semaphore; excess requests wait their turn.
func (a *App) handleProcess(w http.ResponseWriter, r *http.Request) {
	file, tier, ok := a.uploadFromRequest(w, r)
	if !ok {
		return
	}

	if err := a.parseSlots.Acquire(r.Context(), 1); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, tabular.ProcessedFileResult{
			Data:  []tabular.Row{},
			Error: errors.ToProcessError(errors.ServerError("系統忙碌中，請稍後再試", err)),
		})
		return
	}
	defer a.parseSlots.Release(1)

	result := a.pipeline.ValidateAndProcess(r.Context(), file, tier)
	response := processResponse{ProcessedFileResult: result}
	if result.Error == nil && result.FileInfo != nil {
		response.ColumnProfiles = a.classifier.ClassifyColumns(result.Data, columnsOf(result.Data))
	}
	writeJSON(w, http.StatusOK, response)
}

// handlePrivacyCheck runs the header-only sensitive-column screen
func (a *App) handlePrivacyCheck(w http.ResponseWriter, r *http.Request) {
	file, _, ok := a.uploadFromRequest(w, r)
	if !ok {
		return
	}

	result := a.checker.CheckFile(r.Context(), file)
	writeJSON(w, http.StatusOK, result)
}

// uploadFromRequest extracts the multipart file and tier from the request.
// A malformed request is answered directly and ok=false is returned.
func (a *App) uploadFromRequest(w http.ResponseWriter, r *http.Request) (tabular.SourceFile, tabular.Tier, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.logger.Warn("[App] malformed multipart request: %v", err)
		writeJSON(w, http.StatusBadRequest, tabular.ValidationResult{
			IsValid: false,
			Error:   errors.ToProcessError(errors.ValidationError("上傳內容格式錯誤，請重新上傳檔案")),
		})
		return nil, "", false
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, tabular.ValidationResult{
			IsValid: false,
			Error:   errors.ToProcessError(errors.ValidationError("未選擇檔案，請先選擇要上傳的檔案")),
		})
		return nil, "", false
	}

	tier := tabular.Tier(r.FormValue("tier"))
	if tier == "" {
		tier = tabular.TierGeneral
	}
	return tabular.NewMultipartFile(header), tier, true
}

func columnsOf(rows []tabular.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		columns = append(columns, key)
	}
	return columns
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already written; the most we can do for a broken
	// payload is make the failure visible in the log.
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		internal.DefaultLogger.Error("[App] response encoding failed: %v", err)
	}
}
