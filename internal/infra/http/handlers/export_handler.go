package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/salescope/pipeline-insights/internal/infra/export"
	"github.com/salescope/pipeline-insights/internal/infra/http/middleware"
	"github.com/salescope/pipeline-insights/internal/infra/queue"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

type ExportHandler struct {
	Spotlight   *usecase.SpotlightUseCase
	Producer    queue.ExportProducerInterface
	ReferenceTZ *time.Location
	MaxRows     int
}

func NewExportHandler(spotlight *usecase.SpotlightUseCase, producer queue.ExportProducerInterface, referenceTZ *time.Location, maxRows int) *ExportHandler {
	return &ExportHandler{
		Spotlight:   spotlight,
		Producer:    producer,
		ReferenceTZ: referenceTZ,
		MaxRows:     maxRows,
	}
}

// buildDocument validates the range, computes the requested spotlight and
// enforces the export row bound. Oversized ranges are rejected outright:
// silently truncating rows would ship a misleading report.
func (h *ExportHandler) buildDocument(ctx context.Context, r *http.Request, report string) (export.Document, []usecase.ValidationError, error) {
	q := r.URL.Query()
	window, verrs := usecase.ValidateReportRange(usecase.ReportRangeInput{
		From: q.Get("from"),
		To:   q.Get("to"),
		TZ:   q.Get("tz"),
	}, h.ReferenceTZ)
	if len(verrs) > 0 {
		return export.Document{}, verrs, nil
	}

	switch report {
	case "setters":
		rows, err := h.Spotlight.SetterRows(ctx, window)
		if err != nil {
			return export.Document{}, nil, err
		}
		if len(rows) > h.MaxRows {
			return export.Document{}, nil, usecase.RangeTooLarge(len(rows), h.MaxRows)
		}
		return export.BuildSetterDocument(rows, window), nil, nil
	case "closers":
		rows, err := h.Spotlight.CloserRows(ctx, window)
		if err != nil {
			return export.Document{}, nil, err
		}
		if len(rows) > h.MaxRows {
			return export.Document{}, nil, usecase.RangeTooLarge(len(rows), h.MaxRows)
		}
		return export.BuildCloserDocument(rows, window), nil, nil
	default:
		return export.Document{}, nil, fmt.Errorf("unknown report %q", report)
	}
}

func (h *ExportHandler) handleCSV(w http.ResponseWriter, r *http.Request, report string) {
	doc, verrs, err := h.buildDocument(r.Context(), r, report)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	if err != nil {
		middleware.RecordExportError()
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="spotlight-%s.csv"`, report))
	if err := export.WriteCSV(w, doc); err != nil {
		middleware.RecordExportError()
		return
	}
	middleware.RecordExport("csv")
}

func (h *ExportHandler) handlePDF(w http.ResponseWriter, r *http.Request, report string) {
	doc, verrs, err := h.buildDocument(r.Context(), r, report)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	if err != nil {
		middleware.RecordExportError()
		writeError(w, err)
		return
	}

	data, err := export.RenderPDF(doc)
	if err != nil {
		middleware.RecordExportError()
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="spotlight-%s.pdf"`, report))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
	middleware.RecordExport("pdf")
}

func (h *ExportHandler) HandleSettersCSV(w http.ResponseWriter, r *http.Request) {
	h.handleCSV(w, r, "setters")
}

func (h *ExportHandler) HandleSettersPDF(w http.ResponseWriter, r *http.Request) {
	h.handlePDF(w, r, "setters")
}

func (h *ExportHandler) HandleClosersCSV(w http.ResponseWriter, r *http.Request) {
	h.handleCSV(w, r, "closers")
}

func (h *ExportHandler) HandleClosersPDF(w http.ResponseWriter, r *http.Request) {
	h.handlePDF(w, r, "closers")
}

type emailExportRequest struct {
	Report    string `json:"report"`
	From      string `json:"from"`
	To        string `json:"to"`
	TZ        string `json:"tz"`
	Recipient string `json:"recipient"`
}

// HandleEmailExport queues a PDF export for delivery by the worker.
func (h *ExportHandler) HandleEmailExport(w http.ResponseWriter, r *http.Request) {
	var req emailExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	var verrs []usecase.ValidationError
	if req.Report != "setters" && req.Report != "closers" {
		verrs = append(verrs, usecase.ValidationError{Field: "report", Message: "must be setters or closers"})
	}
	if _, err := mail.ParseAddress(req.Recipient); err != nil {
		verrs = append(verrs, usecase.ValidationError{Field: "recipient", Message: "must be a valid email address"})
	}
	if _, rangeErrs := usecase.ValidateReportRange(usecase.ReportRangeInput{From: req.From, To: req.To, TZ: req.TZ}, h.ReferenceTZ); len(rangeErrs) > 0 {
		verrs = append(verrs, rangeErrs...)
	}
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	if h.Producer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "export delivery is not configured", Code: "EXPORT_DELIVERY_UNAVAILABLE"})
		return
	}

	err := h.Producer.PublishExport(r.Context(), queue.ExportPayload{
		Report:    req.Report,
		From:      req.From,
		To:        req.To,
		TZ:        req.TZ,
		Recipient: req.Recipient,
	})
	if err != nil {
		writeError(w, usecase.ReportingUnavailable(err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
