package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/transport"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"5551234567", "15551234567", false},
		{"15551234567", "15551234567", false},
		{"(555) 123-4567", "15551234567", false},
		{"+1 555 123 4567", "15551234567", false},
		{"123", "", true},
		{"", "", true},
		// 11+ digits not starting with 1 pass through unmodified.
		{"+44 5511 223344", "445511223344", false},
	}

	for _, tc := range cases {
		got, err := transport.NormalizePhone(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.in)
			var validation *appErrors.ValidationError
			assert.True(t, errors.As(err, &validation), "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestWhatsAppSendSuccess(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"key":    map[string]any{"id": "MSG123"},
			"status": "PENDING",
		})
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	res := tr.Send(context.Background(), transport.Message{
		Recipient: "5551234567",
		Content:   "hello there",
	})

	require.True(t, res.Success)
	assert.Equal(t, model.StatusSent, res.Status)
	assert.Equal(t, "15551234567", res.Recipient)
	assert.Equal(t, "MSG123", res.MessageID)
	assert.NotNil(t, res.ChannelResponse)

	assert.Equal(t, "/message/sendText/main", gotPath)
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "15551234567", gotBody["number"])
	assert.Equal(t, "hello there", gotBody["text"])
}

func TestWhatsAppSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "instance not connected", http.StatusBadRequest)
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	res := tr.Send(context.Background(), transport.Message{Recipient: "5551234567", Content: "x"})

	require.False(t, res.Success)
	assert.Equal(t, model.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "evolution api error: 400")
}

func TestWhatsAppSendIncompleteConfigSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{APIURL: srv.URL, InstanceName: "main"})
	res := tr.Send(context.Background(), transport.Message{Recipient: "5551234567", Content: "x"})

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "configuration incomplete")
	assert.Equal(t, 0, calls)
}

func TestWhatsAppSendInvalidPhoneSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})
	res := tr.Send(context.Background(), transport.Message{Recipient: "123", Content: "x"})

	require.False(t, res.Success)
	assert.Equal(t, model.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "invalid phone number format")
	assert.Equal(t, 0, calls)
}

func TestWhatsAppInstanceStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance/connectionState/main", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"instance": map[string]any{"state": "open"},
		})
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	status := tr.InstanceStatus(context.Background())
	require.True(t, status.Success)
	assert.Equal(t, "open", status.State)
	assert.True(t, status.Connected)
}

func TestWhatsAppInstanceStatusDisconnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"instance": map[string]any{"state": "close"},
		})
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	status := tr.InstanceStatus(context.Background())
	require.True(t, status.Success)
	assert.False(t, status.Connected)
}

func TestWhatsAppQRCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance/connect/main", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"base64": "data:image/png;base64,QUJD"})
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	qr := tr.QRCode(context.Background())
	require.True(t, qr.Success)
	assert.Equal(t, "data:image/png;base64,QUJD", qr.QRCode)
}

func TestWhatsAppTestConnectionDelegatesToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"instance": map[string]any{"state": "open"},
		})
	}))
	defer srv.Close()

	tr := transport.NewWhatsApp(model.WhatsAppConfig{
		APIURL:       srv.URL,
		APIKey:       "secret",
		InstanceName: "main",
	})

	res := tr.TestConnection(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, true, res.ChannelResponse["connected"])
}
