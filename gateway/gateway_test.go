package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeCreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1999", r.PostForm.Get("amount"))
		assert.Equal(t, "c1", r.PostForm.Get("metadata[courseId]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","status":"succeeded"}`))
	}))
	defer srv.Close()

	s := NewStripe(srv.URL, "sk_test", time.Second)
	intent, err := s.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		AmountCents: 1999, Currency: "usd", PaymentMethodID: "pm_1",
		Metadata: map[string]string{"courseId": "c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.True(t, intent.Succeeded())
}

func TestStripeSurfacesDeclineMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	_, err := NewStripe(srv.URL, "sk", time.Second).CreatePaymentIntent(context.Background(), PaymentIntentRequest{})
	require.Error(t, err)
	assert.Equal(t, "Your card was declined.", err.Error())
}

func TestPayPalGetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/oauth2/token":
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "cid", user)
			assert.Equal(t, "sec", pass)
			_, _ = w.Write([]byte(`{"access_token":"tok"}`))
		case "/v2/checkout/orders/ORDER-1":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"COMPLETED"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	order, err := NewPayPal(srv.URL, "cid", "sec", time.Second).GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.True(t, order.Completed())
}

func TestVimeoUploadFlow(t *testing.T) {
	var ticketBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/me/folders":
			_, _ = w.Write([]byte(`{"uri":"/users/9/projects/555"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/me/videos":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ticketBody))
			_, _ = w.Write([]byte(`{"uri":"/videos/777","upload":{"upload_link":"https://upload/777"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/videos/777":
			_, _ = w.Write([]byte(`{"player_embed_url":"https://player/777","duration":125,"pictures":{"sizes":[{"link":"a"},{"link":"b"}]}}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/videos/777":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"missing"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	v := NewVimeo(srv.URL, "token", time.Second)

	folder, err := v.CreateFolder(ctx, "Course: Go")
	require.NoError(t, err)
	assert.Equal(t, "555", folder)

	ticket, err := v.CreateUploadTicket(ctx, UploadTicketRequest{Size: 1024, Name: "Lesson", FolderID: folder})
	require.NoError(t, err)
	assert.Equal(t, "777", ticket.VideoID)
	assert.Equal(t, "https://upload/777", ticket.UploadLink)
	assert.Equal(t, "/folders/555", ticketBody["folder_uri"])

	details, err := v.GetVideo(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, 125.0, details.Duration)
	assert.Equal(t, "b", details.ThumbnailURL())

	require.NoError(t, v.UpdatePrivacy(ctx, "777"))

	_, err = v.GetVideo(ctx, "404")
	require.Error(t, err)
	assert.Equal(t, "missing", err.Error())
}
