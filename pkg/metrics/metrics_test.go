package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("appointments", prometheus.NewRegistry())

	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/bookings", http.StatusCreated, 10*time.Millisecond)
	m.IncBookingCreated("pending")
	m.IncBookingConflict("create")
	m.IncBookingConflict("create")
	m.IncBookingTransition("pending", "confirmed")
	m.ObserveDBQuery("select bookings", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/bookings", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("pending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingConflicts.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingTransitions.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("select bookings")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Second)
		m.IncBookingCreated("confirmed")
		m.IncNotification("booking.created", nil)
	})
}
