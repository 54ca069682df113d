package invoice_api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"jastip-express/internal/auth"
	"jastip-express/internal/invoice"
	"jastip-express/internal/logger"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	InvoiceService *invoice.InvoiceService
	PDF            *invoice.PDFGenerator
	Shares         *invoice.ShareStore
	Events         invoice.EventLookup
	Logger         *logger.Logger
}

func NewHandler(svc *invoice.InvoiceService, pdf *invoice.PDFGenerator, shares *invoice.ShareStore, events invoice.EventLookup, log *logger.Logger) *Handler {
	return &Handler{InvoiceService: svc, PDF: pdf, Shares: shares, Events: events, Logger: log}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, invoice.ErrNoOrders) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusNotFound)
}

// canGenerate: only someone who may modify the event hands out invoices.
func (h *Handler) canGenerate(r *http.Request, eventID string) bool {
	event, err := h.Events.GetEventByID(r.Context(), eventID)
	if err != nil {
		return false
	}
	return event.CanModify(auth.UserID(r.Context()))
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	customerName := chi.URLParam(r, "customerName")
	h.Logger.Info("API", fmt.Sprintf("GetInvoice: eventId=%s customer=%s", eventID, customerName))

	if !h.canGenerate(r, eventID) {
		http.Error(w, "Not allowed to generate invoices for this event", http.StatusForbidden)
		return
	}

	inv, err := h.InvoiceService.Build(r.Context(), eventID, customerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetInvoice: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(inv); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetInvoice: failed to encode response: %v", err))
	}
}

func (h *Handler) GetInvoicePDF(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	customerName := chi.URLParam(r, "customerName")
	h.Logger.Info("API", fmt.Sprintf("GetInvoicePDF: eventId=%s customer=%s", eventID, customerName))

	if !h.canGenerate(r, eventID) {
		http.Error(w, "Not allowed to generate invoices for this event", http.StatusForbidden)
		return
	}

	inv, err := h.InvoiceService.Build(r.Context(), eventID, customerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetInvoicePDF: %v", err))
		h.writeServiceError(w, err)
		return
	}

	// Mint a share link so the printed receipt carries a scannable QR
	token, _, err := h.Shares.CreateLink(r.Context(), eventID, customerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetInvoicePDF: failed to create share link: %v", err))
		http.Error(w, "Failed to create share link", http.StatusInternalServerError)
		return
	}
	qrCode, err := h.Shares.QRCode(token)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("GetInvoicePDF: failed to render QR, continuing without: %v", err))
		qrCode = nil
	}

	pdfBytes, err := h.PDF.Generate(inv, qrCode)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetInvoicePDF: failed to render PDF: %v", err))
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice-%s.pdf", eventID))
	w.Write(pdfBytes)
	h.Logger.LogInvoice("PDF", fmt.Sprintf("rendered invoice PDF for %s on event %s", customerName, eventID))
}

func (h *Handler) ShareInvoice(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	customerName := chi.URLParam(r, "customerName")
	h.Logger.Info("API", fmt.Sprintf("ShareInvoice: eventId=%s customer=%s", eventID, customerName))

	if !h.canGenerate(r, eventID) {
		http.Error(w, "Not allowed to generate invoices for this event", http.StatusForbidden)
		return
	}

	// Verify the invoice exists before handing out a link to it
	if _, err := h.InvoiceService.Build(r.Context(), eventID, customerName); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ShareInvoice: %v", err))
		h.writeServiceError(w, err)
		return
	}

	token, url, err := h.Shares.CreateLink(r.Context(), eventID, customerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ShareInvoice: failed to create share link: %v", err))
		http.Error(w, "Failed to create share link", http.StatusInternalServerError)
		return
	}

	var qrEncoded string
	if qr, err := h.Shares.QRCode(token); err == nil {
		qrEncoded = base64.StdEncoding.EncodeToString(qr)
	} else {
		h.Logger.Warn("API", fmt.Sprintf("ShareInvoice: failed to render QR: %v", err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"token": token, "url": url, "qr_png": qrEncoded})
	h.Logger.LogInvoice("SHARE", fmt.Sprintf("share link minted for %s on event %s", customerName, eventID))
}

// GetPublicInvoice serves a shared invoice without authentication. The
// token is the only credential.
func (h *Handler) GetPublicInvoice(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	h.Logger.Info("API", "GetPublicInvoice")

	eventID, customerName, err := h.Shares.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, invoice.ErrShareNotFound) {
			http.Error(w, "Share link not found or expired", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetPublicInvoice: %v", err))
		http.Error(w, "Failed to resolve share link", http.StatusInternalServerError)
		return
	}

	inv, err := h.InvoiceService.Build(r.Context(), eventID, customerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPublicInvoice: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(inv); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPublicInvoice: failed to encode response: %v", err))
	}
}
