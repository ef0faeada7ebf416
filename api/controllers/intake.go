package controllers

import (
	"net/http"
	"strings"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	intakesvc "github.com/treadstock/treadstock-backend/internal/intake"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
)

const maxIntakeUploadBytes = 10 << 20

// ParseIntakeFile parses an uploaded supplier price list into a normalized
// batch for review. Nothing is written; the client commits the reviewed
// lines separately.
func ParseIntakeFile(parser *intakesvc.Parser, cfg config.IntakeConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if parser == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake parser unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxIntakeUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field required"))
			return
		}
		defer file.Close()

		opts := intakesvc.ParseOptions{DefaultSection: enums.SectionSummer}

		delimiter := strings.TrimSpace(r.FormValue("delimiter"))
		if delimiter == "" {
			delimiter = cfg.Delimiter
		}
		if runes := []rune(delimiter); len(runes) == 1 {
			opts.Delimiter = runes[0]
		} else if delimiter != "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "delimiter must be a single character"))
			return
		}

		if raw := strings.TrimSpace(r.FormValue("default_section")); raw != "" {
			section, err := enums.ParseSection(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid default section"))
				return
			}
			opts.DefaultSection = section
		}

		batch, err := parser.ParseFile(file, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// CommitIntake writes reviewed intake lines to the catalog and ledger, one
// transaction per line.
func CommitIntake(svc intakesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}

		var payload commitIntakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Commit(r.Context(), payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

type commitIntakeRequest struct {
	Lines []intakesvc.IntakeLine `json:"lines" validate:"required,min=1"`
}
