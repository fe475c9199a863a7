package folio

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

// trackingBody records whether the response body was closed.
type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error { b.closed = true; return nil }

// stubTransport serves a canned response, no network involved.
type stubTransport struct {
	status int
	body   *trackingBody
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Status:     fmt.Sprintf("%d %s", s.status, http.StatusText(s.status)),
		Header:     make(http.Header),
		Body:       s.body,
		Request:    req,
	}, nil
}

func stubClient(status, payload string) (*http.Client, *trackingBody) {
	code := map[string]int{"ok": 200, "error": 500}[status]
	body := &trackingBody{Reader: strings.NewReader(payload)}
	return &http.Client{Transport: &stubTransport{status: code, body: body}}, body
}

func TestJwgetClosesBody(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		client, body := stubClient("ok", `{"close":42.5}`)
		var v map[string]any
		if err := jwget(client, "http://feed.test/quote", &v); err != nil {
			t.Fatalf("jwget() error = %v", err)
		}
		if v["close"] != 42.5 {
			t.Errorf("close = %v want 42.5", v["close"])
		}
		if !body.closed {
			t.Error("response body left open")
		}
	})

	t.Run("on http error", func(t *testing.T) {
		client, body := stubClient("error", "oops")
		var v any
		if err := jwget(client, "http://feed.test/quote", &v); err == nil {
			t.Fatal("jwget() = nil error on a 500 response")
		}
		if !body.closed {
			t.Error("response body left open on the error path")
		}
	})
}

func TestDailyClose(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		path    string
		want    string
		wantErr bool
	}{
		{name: "float value", payload: `{"close":42.5}`, path: "$.close", want: "42.5"},
		{name: "single element list", payload: `{"close":[12.5]}`, path: "$.close", want: "12.5"},
		{name: "localized string", payload: `{"close":"1 234,5"}`, path: "$.close", want: "1234.5"},
		{name: "nested path", payload: `{"quote":{"close":7}}`, path: "$.quote.close", want: "7"},
		{name: "missing path", payload: `{"open":1}`, path: "$.close", wantErr: true},
		{name: "unusable value", payload: `{"close":true}`, path: "$.close", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := stubClient("ok", tc.payload)
			feed := &Feed{client: client, urlTemplate: "http://feed.test/%s", pricePath: tc.path}

			got, err := feed.DailyClose("TA")
			if (err != nil) != tc.wantErr {
				t.Fatalf("DailyClose() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got.String() != tc.want {
				t.Errorf("DailyClose() = %s want %s", got, tc.want)
			}
		})
	}
}
