package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingBooking/internal/service/bookings"
	"github.com/m04kA/SMC-DetailingBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-DetailingBooking/pkg/logger"
)

type fakeService struct {
	got *models.CancelBookingRequest
	err error
}

func (f *fakeService) Cancel(_ context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id.String(), Status: "cancelled"}, nil
}

func serve(svc BookingService, id, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/cancel", strings.NewReader(body)))
	return rec
}

func TestHandler_WithReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, uuid.NewString(), `{"cancellationReason":"sick"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.CancellationReason)
	assert.Equal(t, "sick", *svc.got.CancellationReason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandler_EmptyBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, uuid.NewString(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.CancellationReason)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		err    error
		status int
	}{
		{"bad id", "not-a-uuid", "", nil, http.StatusBadRequest},
		{"bad body", uuid.NewString(), "{", nil, http.StatusBadRequest},
		{"not found", uuid.NewString(), "", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"cannot cancel", uuid.NewString(), "", bookings.ErrCannotCancel, http.StatusBadRequest},
		{"invalid input", uuid.NewString(), "", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", uuid.NewString(), "", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
