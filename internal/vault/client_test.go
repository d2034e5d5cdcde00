package vault_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
	"aura/internal/vault"
)

func TestCreateSession_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vault/create-session/", r.URL.Path)

		var req domain.CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Dr. Rao", req.DoctorName)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"session_id":"abc123","qr_url":"http://h/vault/abc123/join"}`)
	}))
	defer srv.Close()

	out, err := vault.NewHTTP(srv.URL+"/").CreateSession(context.Background(), "Dr. Rao")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("abc123"), out.SessionID)
	assert.Equal(t, "http://h/vault/abc123/join", out.QRURL)
}

func TestServerError_CarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"doctor_name is required"}`)
	}))
	defer srv.Close()

	_, err := vault.NewHTTP(srv.URL).CreateSession(context.Background(), "")
	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "doctor_name is required", se.Message)
}

func TestFetchSession_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vault/session/nope/", r.URL.Path)
		http.Error(w, `{"message":"no such session"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := vault.NewHTTP(srv.URL).FetchSession(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "no such session", se.Message)
}

func TestUploadRecord_SnakeCaseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vault/upload/abc123/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane", body["name"])
		assert.Equal(t, "none", body["current_medications"])
		assert.NotContains(t, body, "currentMedications")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"01H","status":"uploaded"}`)
	}))
	defer srv.Close()

	rec, err := vault.NewHTTP(srv.URL).UploadRecord(context.Background(), "abc123", domain.PatientRecord{
		Name: "Jane", Age: "34", Symptoms: "fever", CurrentMedications: "none",
	})
	require.NoError(t, err)
	assert.Equal(t, "uploaded", rec.Status)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := vault.NewHTTP(base).FetchSession(context.Background(), "x")
	var te *domain.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestUndecodableBody_IsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	}))
	defer srv.Close()

	_, err := vault.NewHTTP(srv.URL).FetchSession(context.Background(), "x")
	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusOK, se.Status)
}

func TestFindPlaces_Routes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var q domain.PlacesQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, 5000, q.Radius)
		_, _ = io.WriteString(w, `{"hospitals":[{"place_id":"p1","name":"City"}],"count":1}`)
	}))
	defer srv.Close()

	c := vault.NewHTTP(srv.URL)
	q := domain.PlacesQuery{Latitude: 1, Longitude: 2, Radius: 5000}
	res, err := c.FindPlaces(context.Background(), domain.PlaceHospital, q)
	require.NoError(t, err)
	assert.Len(t, res.Places(), 1)
	_, err = c.FindPlaces(context.Background(), domain.PlaceDoctor, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/find_hospitals/", "/api/find_doctors/"}, paths)

	_, err = c.FindPlaces(context.Background(), "pharmacy", q)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestIdentifyMedicine_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "pill.jpg", hdr.Filename)
		assert.Equal(t, "jpegbytes", string(b))
		_, _ = io.WriteString(w, `{"status":"low_confidence","closest_match":"Paracetamol 500mg"}`)
	}))
	defer srv.Close()

	res, err := vault.NewHTTP(srv.URL).IdentifyMedicine(context.Background(), "pill.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, domain.MedicineLowConfidence, res.Status)
	assert.Equal(t, "Paracetamol 500mg", res.ClosestMatch)
	assert.Nil(t, res.Data)
}
