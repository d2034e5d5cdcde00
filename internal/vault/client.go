package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aura/internal/domain"
)

// DefaultTimeout bounds each request when the caller's context has no deadline.
const DefaultTimeout = 30 * time.Second

// HTTP is the vault API client.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the backend at base.
func NewHTTP(base string) *HTTP {
	return &HTTP{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: DefaultTimeout},
	}
}

// CreateSession opens a hand-off session for doctorName.
func (c *HTTP) CreateSession(ctx context.Context, doctorName string) (domain.CreateSessionResponse, error) {
	var out domain.CreateSessionResponse
	err := c.post(ctx, "/api/vault/create-session/", domain.CreateSessionRequest{DoctorName: doctorName}, &out)
	if err != nil {
		return domain.CreateSessionResponse{}, err
	}
	if out.SessionID == "" {
		return domain.CreateSessionResponse{}, &domain.ServerError{Status: http.StatusOK, Message: "response has no session_id"}
	}
	return out, nil
}

// FetchSession returns the session and its records so far.
func (c *HTTP) FetchSession(ctx context.Context, id domain.SessionID) (domain.HandoffSession, error) {
	var out domain.HandoffSession
	if err := c.getJSON(ctx, "/api/vault/session/"+url.PathEscape(id.String())+"/", &out); err != nil {
		return domain.HandoffSession{}, notFound(err)
	}
	return out, nil
}

// UploadRecord stores record in session id.
func (c *HTTP) UploadRecord(
	ctx context.Context,
	id domain.SessionID,
	record domain.PatientRecord,
) (domain.UploadReceipt, error) {
	var out domain.UploadReceipt
	if err := c.post(ctx, "/api/vault/upload/"+url.PathEscape(id.String())+"/", record, &out); err != nil {
		return domain.UploadReceipt{}, notFound(err)
	}
	return out, nil
}

// FindPlaces looks up providers of kind near query.
func (c *HTTP) FindPlaces(
	ctx context.Context,
	kind domain.PlaceKind,
	query domain.PlacesQuery,
) (domain.PlacesResult, error) {
	var path string
	switch kind {
	case domain.PlaceHospital:
		path = "/api/find_hospitals/"
	case domain.PlaceDoctor:
		path = "/api/find_doctors/"
	default:
		return domain.PlacesResult{}, &domain.ValidationError{Field: "kind", Message: "must be hospital or doctor"}
	}
	var out domain.PlacesResult
	if err := c.post(ctx, path, query, &out); err != nil {
		return domain.PlacesResult{}, err
	}
	return out, nil
}

// IdentifyMedicine uploads image as the multipart field "image".
func (c *HTTP) IdentifyMedicine(
	ctx context.Context,
	filename string,
	image io.Reader,
) (domain.MedicineResult, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return domain.MedicineResult{}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return domain.MedicineResult{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.MedicineResult{}, err
	}

	var out domain.MedicineResult
	if err := c.do(ctx, http.MethodPost, "/api/identify-medicine/", mw.FormDataContentType(), buf, &out); err != nil {
		return domain.MedicineResult{}, err
	}
	return out, nil
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", buf, out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *HTTP) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &domain.TransportError{Op: method + " " + path, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &domain.ServerError{Status: resp.StatusCode, Message: errorMessage(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &domain.ServerError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response body: %v", err)}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(b []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(b, &body) == nil {
		for _, m := range []string{body.Error, body.Message, body.Detail} {
			if m != "" {
				return m
			}
		}
	}
	s := strings.TrimSpace(string(b))
	if len(s) > 200 || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}

// notFound tags a 404 with domain.ErrSessionNotFound.
func notFound(err error) error {
	var se *domain.ServerError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrSessionNotFound, err)
	}
	return err
}

var _ domain.VaultClient = (*HTTP)(nil)
