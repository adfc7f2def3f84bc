package calcom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED"}`)
	sig := sign(body, "s3cret")

	assert.True(t, VerifySignature(body, sig, "s3cret"))
	assert.True(t, VerifySignature(body, "sha256="+sig, "s3cret"))
	assert.False(t, VerifySignature(body, sig, "other"))
	assert.False(t, VerifySignature(body, "", "s3cret"))
	assert.False(t, VerifySignature(append(body, ' '), sig, "s3cret"))
}

func TestSignatureFromHeadersOrder(t *testing.T) {
	h := http.Header{}
	h.Set("X-Signature", "c")
	h.Set("X-Cal-Signature", "b")
	assert.Equal(t, "b", SignatureFromHeaders(h))

	h.Set("X-Cal-Signature-256", "a")
	assert.Equal(t, "a", SignatureFromHeaders(h))
}

func TestParseBookingCreated(t *testing.T) {
	body := []byte(`{
		"triggerEvent": "BOOKING_CREATED",
		"payload": {
			"uid": "bk_123",
			"type": "consult-30",
			"startTime": "2026-04-01T10:00:00Z",
			"endTime": "2026-04-01T10:30:00Z",
			"timeZone": "Asia/Tokyo",
			"attendees": [{"name": "佐藤 花子", "email": "hanako@example.com", "phone": "090-1111-2222"}],
			"metadata": {"click_type": "Consult", "jobId": "job-1", "user_id": "user-1"},
			"location": "https://zoom.us/j/1",
			"references": [{"meetingUrl": "https://meet.google.com/abc-defg-hij"}]
		}
	}`)

	b, err := Parse(body)
	require.NoError(t, err)

	assert.Equal(t, "booked", b.Status)
	assert.Equal(t, "bk_123", b.ExternalBookingID)
	assert.Equal(t, "consult", b.ClickType)
	assert.Equal(t, "job-1", b.JobID)
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, "佐藤 花子", b.AttendeeName)
	assert.Equal(t, "hanako@example.com", b.AttendeeEmail)
	assert.Equal(t, "Asia/Tokyo", b.Timezone)
	require.NotNil(t, b.StartsAt)
	assert.Equal(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), b.StartsAt.UTC())
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", b.MeetingURL)
}

func TestParseTriggerMapping(t *testing.T) {
	cases := map[string]string{
		"BOOKING_RESCHEDULED": "rescheduled",
		"BOOKING_CONFIRMED":   "confirmed",
		"BOOKING_CANCELLED":   "canceled",
		"booking_canceled":    "canceled",
		"MEETING_ENDED":       "completed",
		"BOOKING_REQUESTED":   "booked",
	}
	for trigger, want := range cases {
		b, err := Parse([]byte(`{"triggerEvent":"` + trigger + `","payload":{"uid":"x"}}`))
		require.NoError(t, err)
		assert.Equal(t, want, b.Status, trigger)
	}

	b, err := Parse([]byte(`{"data":{"id":42}}`))
	require.NoError(t, err)
	assert.Equal(t, "BOOKING_CREATED", b.Trigger)
	assert.Equal(t, "booked", b.Status)
	assert.Equal(t, "42", b.ExternalBookingID)
}

func TestParseFallsBackToTopLevelAttendeeAndFirstURL(t *testing.T) {
	body := []byte(`{
		"event": "BOOKING_CREATED",
		"booking": {
			"uid": "bk_9",
			"name": "田中",
			"email": "tanaka@example.com",
			"start": "2026-05-01T01:00:00Z",
			"location": {"url": "https://zoom.us/j/99"}
		}
	}`)

	b, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, "田中", b.AttendeeName)
	assert.Equal(t, "tanaka@example.com", b.AttendeeEmail)
	assert.Equal(t, "https://zoom.us/j/99", b.MeetingURL)
	assert.Empty(t, b.ClickType)
}

func TestParseRejectsMissingBookingID(t *testing.T) {
	_, err := Parse([]byte(`{"triggerEvent":"BOOKING_CREATED","payload":{"startTime":"2026-05-01T01:00:00Z","attendees":[{"email":"a@b.com"}]}}`))
	assert.ErrorIs(t, err, ErrMissingBookingID)

	b, err := Parse([]byte(`{"id":"delivery-7","payload":{"title":"相談"}}`))
	require.NoError(t, err)
	assert.Equal(t, "delivery-7", b.ExternalBookingID)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)
}
