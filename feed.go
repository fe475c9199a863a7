package folio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/folioworks/folio/date"
)

// contains http utils to deal with remote price services

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// dailyClient returns a client with a cache all with daily expire
func dailyClient() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// Feed pulls daily close prices from a JSON HTTP endpoint.
//
// The endpoint address is a template where %s is replaced by the asset
// symbol, and the close is extracted from the response with a jsonpath
// expression, e.g. "$.quote.close".
type Feed struct {
	client      *http.Client
	urlTemplate string
	pricePath   string
}

// NewFeed returns a feed on the given endpoint. Responses are cached on disk
// and expire daily, so repeated fetches within a day hit the network once.
func NewFeed(urlTemplate, pricePath string) *Feed {
	return &Feed{client: dailyClient(), urlTemplate: urlTemplate, pricePath: pricePath}
}

// DailyClose fetches the latest close for a symbol.
func (f *Feed) DailyClose(symbol string) (decimal.Decimal, error) {
	addr := fmt.Sprintf(f.urlTemplate, symbol)
	var jobj any
	if err := jwget(f.client, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get(f.pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", symbol, f.pricePath, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// sometimes these APIs return the value as a localized string
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Zero, fmt.Errorf("cannot read value for %q: invalid string %q: %w", symbol, v, err)
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("cannot read value for %q: %q is neither a float nor a string", symbol, f.pricePath)
	}
}
